package coldstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/clickplanet/server/internal/clickmodel"
)

// tilesKey is the sorted set holding every tile's ownership, scored by
// tile id: member "<country>:<timestampNs>", score tileID. This matches
// spec.md §6's persisted-state layout exactly.
const tilesKey = "tiles"

// RedisStore is the Cold Store Adapter backed by a Redis sorted set.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL and returns a ready-to-use Store. The
// connection pool size is the concurrency limiter against Redis referenced
// in spec.md §5.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("coldstore: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, newStorageError("ping", err)
	}
	return &RedisStore{client: client}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }

func encodeMember(countryID string, timestampNs uint64) string {
	return countryID + ":" + strconv.FormatUint(timestampNs, 10)
}

func decodeMember(tileID uint32, member string) (*clickmodel.Ownership, error) {
	country, tsStr, ok := strings.Cut(member, ":")
	if !ok {
		return nil, newInvalidDataError(fmt.Sprintf("malformed tile member %q", member))
	}
	ts, err := strconv.ParseUint(tsStr, 10, 64)
	if err != nil {
		return nil, newInvalidDataError(fmt.Sprintf("malformed timestamp in %q: %v", member, err))
	}
	return &clickmodel.Ownership{TileId: tileID, CountryId: country, TimestampNs: ts}, nil
}

// GetTile returns the ownership of tileID, or nil if the tile has never
// been claimed.
func (s *RedisStore) GetTile(ctx context.Context, tileID uint32) (*clickmodel.Ownership, error) {
	members, err := s.client.ZRangeByScore(ctx, tilesKey, &redis.ZRangeBy{
		Min: strconv.FormatUint(uint64(tileID), 10),
		Max: strconv.FormatUint(uint64(tileID), 10),
	}).Result()
	if err != nil {
		return nil, newStorageError("zrangebyscore", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	return decodeMember(tileID, members[0])
}

// GetRange returns every owned tile with start <= tileId <= end.
func (s *RedisStore) GetRange(ctx context.Context, start, end uint32) ([]clickmodel.Ownership, error) {
	results, err := s.client.ZRangeByScoreWithScores(ctx, tilesKey, &redis.ZRangeBy{
		Min: strconv.FormatUint(uint64(start), 10),
		Max: strconv.FormatUint(uint64(end), 10),
	}).Result()
	if err != nil {
		return nil, newStorageError("zrangebyscore", err)
	}
	return decodeScored(results)
}

// GetAll returns every owned tile, exactly once each.
func (s *RedisStore) GetAll(ctx context.Context) ([]clickmodel.Ownership, error) {
	results, err := s.client.ZRangeByScoreWithScores(ctx, tilesKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, newStorageError("zrangebyscore", err)
	}
	return decodeScored(results)
}

func decodeScored(results []redis.Z) ([]clickmodel.Ownership, error) {
	out := make([]clickmodel.Ownership, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			return nil, newInvalidDataError(fmt.Sprintf("non-string member %v", z.Member))
		}
		tileID := uint32(z.Score)
		o, err := decodeMember(tileID, member)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}

// SaveClick applies last-writer-wins: the stored record is replaced with
// click only if no record exists yet or the stored timestamp is strictly
// less than click.TimestampNs. The previous record (if any) is always
// returned.
func (s *RedisStore) SaveClick(ctx context.Context, tileID uint32, click clickmodel.Click) (*clickmodel.Ownership, error) {
	score := strconv.FormatUint(uint64(tileID), 10)
	existing, err := s.client.ZRangeByScore(ctx, tilesKey, &redis.ZRangeBy{Min: score, Max: score}).Result()
	if err != nil {
		return nil, newStorageError("zrangebyscore", err)
	}

	var previous *clickmodel.Ownership
	if len(existing) > 0 {
		previous, err = decodeMember(tileID, existing[0])
		if err != nil {
			return nil, err
		}
		if click.TimestampNs <= previous.TimestampNs {
			return previous, nil
		}
	}

	newMember := encodeMember(click.CountryId, click.TimestampNs)

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, tilesKey, redis.Z{Score: float64(tileID), Member: newMember})
	for _, old := range existing {
		if old != newMember {
			pipe.ZRem(ctx, tilesKey, old)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, newStorageError("pipelined zadd/zrem", err)
	}

	return previous, nil
}

var _ Store = (*RedisStore)(nil)
