package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickplanet/server/internal/broadcast"
	"github.com/clickplanet/server/internal/clicklog"
	"github.com/clickplanet/server/internal/clickmodel"
	"github.com/clickplanet/server/internal/clickservice"
	"github.com/clickplanet/server/internal/hotindex"
	"github.com/clickplanet/server/proto/clickpb"
)

func newTestServer(t *testing.T) (*Server, *hotindex.Index, *broadcast.Bus[clickmodel.UpdateNotification]) {
	hot := hotindex.New()
	notify := broadcast.New[clickmodel.UpdateNotification](8)
	fast := broadcast.New[clickmodel.Click](8)
	log := clicklog.NewFakeLog(8)
	svc := clickservice.New(log, fast, func() uint64 { return 42 })
	return New(svc, hot, notify, nil), hot, notify
}

func intArray(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func TestHandleClickSubmitsAndReturnsEmptyObject(t *testing.T) {
	srv, _, _ := newTestServer(t)

	reqProto := &clickpb.ClickRequest{TileId: 9, CountryId: "es"}
	payload, err := reqProto.MarshalVT()
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{"data": intArray(payload)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/click", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "{}", rec.Body.String())
}

func TestHandleOwnershipsByBatchReturnsBase64Protobuf(t *testing.T) {
	srv, hot, _ := newTestServer(t)
	for i := uint32(1); i <= 5; i++ {
		hot.SaveClick(i, clickmodel.Click{TileId: i, CountryId: "fr", TimestampNs: uint64(i)})
	}

	batch := &clickpb.BatchRequest{StartTileId: 2, EndTileId: 4}
	payload, err := batch.MarshalVT()
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{"data": intArray(payload)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v2/rpc/ownerships-by-batch", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	decoded, err := base64.StdEncoding.DecodeString(env.Data)
	require.NoError(t, err)

	var state clickpb.OwnershipState
	require.NoError(t, state.UnmarshalVT(decoded))
	assert.Len(t, state.Ownerships, 3)
}

func TestHandleLeaderboardJSONSortedDescending(t *testing.T) {
	srv, hot, _ := newTestServer(t)
	hot.SaveClick(1, clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 1})
	hot.Reindex(1, "fr", "")
	hot.SaveClick(2, clickmodel.Click{TileId: 2, CountryId: "de", TimestampNs: 2})
	hot.Reindex(2, "de", "")
	hot.SaveClick(3, clickmodel.Click{TileId: 3, CountryId: "de", TimestampNs: 3})
	hot.Reindex(3, "de", "")

	req := httptest.NewRequest(http.MethodGet, "/v2/rpc/leaderboard", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Entries []struct {
			CountryID string `json:"country_id"`
			Score     uint32 `json:"score"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Entries, 2)
	assert.Equal(t, "de", decoded.Entries[0].CountryID)
	assert.EqualValues(t, 2, decoded.Entries[0].Score)
}

func TestHandleLeaderboardProtobufOnAccept(t *testing.T) {
	srv, hot, _ := newTestServer(t)
	hot.SaveClick(1, clickmodel.Click{TileId: 1, CountryId: "fr", TimestampNs: 1})
	hot.Reindex(1, "fr", "")

	req := httptest.NewRequest(http.MethodGet, "/v2/rpc/leaderboard", nil)
	req.Header.Set("Accept", "application/protobuf")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/protobuf", rec.Header().Get("Content-Type"))

	var resp clickpb.LeaderboardResponse
	require.NoError(t, resp.UnmarshalVT(rec.Body.Bytes()))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "fr", resp.Entries[0].CountryId)
}

func TestWebsocketPushesUpdateNotification(t *testing.T) {
	srv, _, notify := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/listen"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return notify.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	notify.Send(clickmodel.UpdateNotification{TileId: 3, CountryId: "pt", PreviousCountryId: "es"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, msgType)

	var n clickpb.UpdateNotification
	require.NoError(t, n.UnmarshalVT(data))
	assert.EqualValues(t, 3, n.TileId)
	assert.Equal(t, "pt", n.CountryId)
	assert.Equal(t, "es", n.PreviousCountryId)
}

func TestHandleClickBadRequestOnMalformedJSON(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/click", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
