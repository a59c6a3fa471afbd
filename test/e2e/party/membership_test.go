package party_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/pkg/partysdk"
)

// TestMembershipFlow walks a free party through join, capacity and leave.
func TestMembershipFlow(t *testing.T) {
	baseURL := setupPartyContainer(t, nil)
	client := partysdk.NewSDKClient(baseURL)
	ctx := t.Context()

	host := signUp(t, client, "riley", "stanford.edu")
	guest := signUp(t, client, "jordan", "stanford.edu")
	third := signUp(t, client, "casey", "stanford.edu")
	outsider := signUp(t, client, "morgan", "carleton.edu")

	party, err := host.CreateParty(ctx, partysdk.CreatePartyRequest{
		Title:        "Dorm social",
		Location:     "Roble Hall",
		DateTime:     upcoming(72 * time.Hour),
		MaxAttendees: 2,
	})
	require.NoError(t, err)
	require.True(t, party.IsHost)
	require.Equal(t, []string{party.HostID}, party.Attendees)

	// Listing defaults to the caller's own university.
	list, err := outsider.ListParties(ctx, "")
	require.NoError(t, err)
	require.Empty(t, list.Parties)

	list, err = outsider.ListParties(ctx, "Stanford University")
	require.NoError(t, err)
	require.Len(t, list.Parties, 1)

	joined, err := guest.JoinParty(ctx, party.ID)
	require.NoError(t, err)
	require.True(t, joined.IsJoined)
	require.Len(t, joined.Attendees, 2)

	// Joining twice is a no-op.
	again, err := guest.JoinParty(ctx, party.ID)
	require.NoError(t, err)
	require.Len(t, again.Attendees, 2)

	_, err = third.JoinParty(ctx, party.ID)
	requireAPIError(t, err, http.StatusConflict, partysdk.ErrorCodePartyFull)

	_, err = host.LeaveParty(ctx, party.ID)
	requireAPIError(t, err, http.StatusConflict, partysdk.ErrorCodeHostCannotLeave)

	left, err := guest.LeaveParty(ctx, party.ID)
	require.NoError(t, err)
	require.False(t, left.IsJoined)

	hosted, err := host.ListHostedParties(ctx)
	require.NoError(t, err)
	require.Len(t, hosted.Parties, 1)

	mine, err := guest.ListJoinedParties(ctx)
	require.NoError(t, err)
	require.Empty(t, mine.Parties)

	_, err = third.JoinParty(ctx, party.ID)
	require.NoError(t, err)
}
