// Package httpapi is the Request Surface (spec.md §4.7): click
// submission, batched/full ownership snapshots, the leaderboard, and a
// push-subscription websocket, grounded on the reference implementation's
// click_server.rs handlers. Click submission and the batched snapshot are
// served under both `/api/...` and `/v2/rpc/...`; the full snapshot and the
// leaderboard only under `/v2/rpc/...`; the websocket at `/ws/listen` and
// `/v2/ws/listen`.
package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/internal/clickservice"
	"github.com/clickplanet/server/internal/hotindex"
	"github.com/clickplanet/server/proto/clickpb"
)

// readDeadline and writeDeadline bound, respectively, the read-only
// snapshot/leaderboard handlers and the click-submission handler, per
// spec.md §4.7's 5-10s range.
const (
	readDeadline  = 5 * time.Second
	writeDeadline = 10 * time.Second
)

// Server wires the Click Service, the Hot Ownership Index reads, and the
// notification broadcaster into an http.Handler.
type Server struct {
	clicks *clickservice.Service
	hot    *hotindex.Index
	notify *broadcast.Bus[clickmodel.UpdateNotification]
	logger *zap.Logger
	router chi.Router
}

// New builds a Server ready to be used as an http.Handler.
func New(clicks *clickservice.Service, hot *hotindex.Index, notify *broadcast.Bus[clickmodel.UpdateNotification], logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{clicks: clicks, hot: hot, notify: notify, logger: logger}
	s.router = s.buildRouter()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	registerClick := func(path string) {
		r.With(middleware.Timeout(writeDeadline)).Post(path, s.handleClick)
	}
	registerBatch := func(path string) {
		r.With(middleware.Timeout(readDeadline)).Post(path, s.handleOwnershipsByBatch)
	}

	registerClick("/api/click")
	registerClick("/v2/rpc/click")
	registerBatch("/api/ownerships-by-batch")
	registerBatch("/v2/rpc/ownerships-by-batch")
	r.With(middleware.Timeout(readDeadline)).Get("/v2/rpc/ownerships", s.handleOwnerships)
	r.With(middleware.Timeout(readDeadline)).Get("/v2/rpc/leaderboard", s.handleLeaderboard)
	r.Get("/ws/listen", s.handleWebsocket)
	r.Get("/v2/ws/listen", s.handleWebsocket)

	return r
}

// byteArray decodes a JSON array of small integers into raw bytes. The
// reference implementation's request payloads carry `data` as a Rust
// `Vec<u8>`, which serde renders as a JSON array of numbers, not base64 —
// Go's native []byte (de)serializes as base64, so a wire-compatible
// request decoder needs its own UnmarshalJSON.
type byteArray []byte

func (b *byteArray) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// requestEnvelope is the JSON shape `{"data": [byte, byte, ...]}` used by
// request bodies, matching the reference implementation's
// ClickPayload/BatchRequestPayload structs.
type requestEnvelope struct {
	Data byteArray `json:"data"`
}

// responseEnvelope is the JSON shape `{"data": "<base64>"}` used by
// snapshot read responses.
type responseEnvelope struct {
	Data string `json:"data"`
}

func writeJSONError(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var env requestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSONError(w, http.StatusBadRequest)
		return
	}

	var req clickpb.ClickRequest
	if err := req.UnmarshalVT(env.Data); err != nil {
		writeJSONError(w, http.StatusBadRequest)
		return
	}

	if _, err := s.clicks.ProcessClick(r.Context(), uint32(req.TileId), req.CountryId); err != nil {
		s.logger.Error("process click failed", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("{}"))
}

func (s *Server) handleOwnershipsByBatch(w http.ResponseWriter, r *http.Request) {
	var env requestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSONError(w, http.StatusBadRequest)
		return
	}

	var req clickpb.BatchRequest
	if err := req.UnmarshalVT(env.Data); err != nil {
		writeJSONError(w, http.StatusBadRequest)
		return
	}

	owned := s.hot.GetRange(uint32(req.StartTileId), uint32(req.EndTileId))
	s.writeOwnershipState(w, owned)
}

func (s *Server) handleOwnerships(w http.ResponseWriter, r *http.Request) {
	s.writeOwnershipState(w, s.hot.GetAll())
}

func (s *Server) writeOwnershipState(w http.ResponseWriter, owned []clickmodel.Ownership) {
	state := &clickpb.OwnershipState{Ownerships: make([]*clickpb.Ownership, 0, len(owned))}
	for _, o := range owned {
		state.Ownerships = append(state.Ownerships, &clickpb.Ownership{
			TileId:      o.TileId,
			CountryId:   o.CountryId,
			TimestampNs: o.TimestampNs,
		})
	}

	encoded, err := state.MarshalVT()
	if err != nil {
		s.logger.Error("encode ownership state failed", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(responseEnvelope{Data: base64.StdEncoding.EncodeToString(encoded)})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	scores := s.hot.Leaderboard()

	entries := make([]*clickpb.LeaderboardEntry, 0, len(scores))
	for country, score := range scores {
		entries = append(entries, &clickpb.LeaderboardEntry{CountryId: country, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

	if strings.Contains(r.Header.Get("Accept"), "application/protobuf") {
		encoded, err := (&clickpb.LeaderboardResponse{Entries: entries}).MarshalVT()
		if err != nil {
			s.logger.Error("encode leaderboard failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/protobuf")
		_, _ = w.Write(encoded)
		return
	}

	type jsonEntry struct {
		CountryID string `json:"country_id"`
		Score     uint32 `json:"score"`
	}
	jsonEntries := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		jsonEntries = append(jsonEntries, jsonEntry{CountryID: e.CountryId, Score: e.Score})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"entries": jsonEntries})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket upgrades the connection and runs the send/receive pair
// described in spec.md §4.7: one goroutine forwards notification
// broadcaster events as binary frames, the other answers ping control
// frames with pong and exits on close; either exiting tears down both.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := s.notify.Subscribe()
	defer sub.Close()

	var writeMu sync.Mutex

	// sub.Recv blocks with no way to pass it a context, so the read-side
	// goroutine closing the subscription on disconnect is what unblocks
	// the send loop below rather than a context.Done case.
	go func() {
		conn.SetPingHandler(func(payload string) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			return conn.WriteControl(websocket.PongMessage, []byte(payload), time.Now().Add(5*time.Second))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				return
			}
		}
	}()

	for {
		notification, ok := sub.Recv()
		if !ok {
			return
		}

		encoded, err := (&clickpb.UpdateNotification{
			TileId:            int32(notification.TileId),
			CountryId:         notification.CountryId,
			PreviousCountryId: notification.PreviousCountryId,
		}).MarshalVT()
		if err != nil {
			s.logger.Error("encode update notification failed", zap.Error(err))
			continue
		}

		writeMu.Lock()
		err = conn.WriteMessage(websocket.BinaryMessage, encoded)
		writeMu.Unlock()
		if err != nil {
			_ = conn.Close()
			return
		}
	}
}
