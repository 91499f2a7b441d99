package clickpb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClickRoundTrip(t *testing.T) {
	want := &Click{TileId: 42, CountryId: "fr", TimestampNs: 1234567890, ClickId: "abc-123"}
	b, err := want.MarshalVT()
	require.NoError(t, err)

	got := &Click{}
	require.NoError(t, got.UnmarshalVT(b))
	require.Equal(t, want, got)
}

func TestOwnershipStateRoundTrip(t *testing.T) {
	want := &OwnershipState{Ownerships: []*Ownership{
		{TileId: 1, CountryId: "a", TimestampNs: 10},
		{TileId: 2, CountryId: "b", TimestampNs: 20},
		{TileId: 3, CountryId: "a", TimestampNs: 30},
	}}
	b, err := want.MarshalVT()
	require.NoError(t, err)

	got := &OwnershipState{}
	require.NoError(t, got.UnmarshalVT(b))
	require.Equal(t, want, got)
}

func TestLeaderboardResponseRoundTrip(t *testing.T) {
	want := &LeaderboardResponse{Entries: []*LeaderboardEntry{
		{CountryId: "b", Score: 5},
		{CountryId: "a", Score: 3},
	}}
	b, err := want.MarshalVT()
	require.NoError(t, err)

	got := &LeaderboardResponse{}
	require.NoError(t, got.UnmarshalVT(b))
	require.Equal(t, want, got)
}

func TestZeroValueFieldsOmitted(t *testing.T) {
	empty := &ClickRequest{}
	b, err := empty.MarshalVT()
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestBatchRequestRoundTrip(t *testing.T) {
	want := &BatchRequest{StartTileId: 2, EndTileId: 6}
	b, err := want.MarshalVT()
	require.NoError(t, err)

	got := &BatchRequest{}
	require.NoError(t, got.UnmarshalVT(b))
	require.Equal(t, want, got)
}

func TestUpdateNotificationEmptyPreviousCountry(t *testing.T) {
	want := &UpdateNotification{TileId: 7, CountryId: "us", PreviousCountryId: ""}
	b, err := want.MarshalVT()
	require.NoError(t, err)

	got := &UpdateNotification{}
	require.NoError(t, got.UnmarshalVT(b))
	require.Equal(t, "", got.PreviousCountryId)
	require.Equal(t, want, got)
}
