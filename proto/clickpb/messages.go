// Package clickpb holds the wire messages exchanged at the clickplanet-server
// boundary: the request/response shapes of the HTTP surface and the Click
// envelope carried on the click log. Field numbers and types mirror spec.md
// §6 exactly so that any client generated from the equivalent .proto file
// stays wire-compatible with this implementation.
package clickpb

// ClickRequest is the body of a click submission before the server stamps
// it with a timestamp and click id.
type ClickRequest struct {
	TileId    int32
	CountryId string
}

// ClickResponse is returned to the submitter of a ClickRequest.
type ClickResponse struct {
	TimestampNs uint64
	ClickId     string
}

// Click is a fully stamped click as it travels through the click log and
// the in-process broadcast.
type Click struct {
	TileId      int32
	CountryId   string
	TimestampNs uint64
	ClickId     string
}

// BatchRequest bounds an inclusive tile id range for a batched ownership
// read.
type BatchRequest struct {
	StartTileId int32
	EndTileId   int32
}

// Ownership is the current owner of a tile as of TimestampNs.
type Ownership struct {
	TileId      uint32
	CountryId   string
	TimestampNs uint64
}

// OwnershipState is a flat list of Ownership records, used for both the
// batched and full snapshot reads.
type OwnershipState struct {
	Ownerships []*Ownership
}

// UpdateNotification announces that a tile changed owner. PreviousCountryId
// is empty when the tile was previously unowned.
type UpdateNotification struct {
	TileId            int32
	CountryId         string
	PreviousCountryId string
}

// LeaderboardEntry is one country's tile count.
type LeaderboardEntry struct {
	CountryId string
	Score     uint32
}

// LeaderboardResponse is the full leaderboard, sorted by Score descending
// by convention of the producer (this package does not sort).
type LeaderboardResponse struct {
	Entries []*LeaderboardEntry
}
