package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFeedback(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &FeedbackService{Store: s}
	// Joins happen the day before so the past party is still open.
	members := &MembershipService{Store: s, Now: func() time.Time { return time.Now().Add(-24 * time.Hour) }}

	host := seedUser(t, s, "host")
	a := seedUser(t, s, "alice")
	b := seedUser(t, s, "bob")
	outsider := seedUser(t, s, "outsider")

	past := seedParty(t, s, host, PartyInput{DateTime: time.Now().Add(-3 * time.Hour)})
	future := seedParty(t, s, host, PartyInput{})
	for _, id := range []string{past.ID, future.ID} {
		_, err := members.Join(ctx, id, a)
		require.NoError(t, err)
		_, err = members.Join(ctx, id, b)
		require.NoError(t, err)
	}

	_, err := svc.Submit(ctx, past.ID, a, 6, "", nil)
	require.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Submit(ctx, past.ID, outsider, 4, "", nil)
	require.ErrorIs(t, err, ErrNotAttendee)
	_, err = svc.Submit(ctx, future.ID, a, 4, "", nil)
	require.ErrorIs(t, err, ErrPartyNotOver)
	_, err = svc.Submit(ctx, past.ID, host, 5, "my own party", nil)
	require.ErrorIs(t, err, ErrHostCannotRate)

	stats, err := svc.Stats(ctx, past.ID)
	require.NoError(t, err)
	require.Zero(t, stats.AverageRating)
	require.Zero(t, stats.Total)

	f, err := svc.Submit(ctx, past.ID, a, 5, "great", nil)
	require.NoError(t, err)
	require.True(t, f.IsAnonymous)

	named := false
	_, err = svc.Submit(ctx, past.ID, b, 2, "too loud", &named)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, past.ID, a, 3, "again", nil)
	require.ErrorIs(t, err, ErrFeedbackExists)

	done, err := svc.HasSubmitted(ctx, past.ID, a.UserID)
	require.NoError(t, err)
	require.True(t, done)

	list, err := svc.List(ctx, past.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, fb := range list {
		if fb.IsAnonymous {
			require.Empty(t, fb.UserID)
		} else {
			require.Equal(t, b.UserID, fb.UserID)
		}
	}

	stats, err = svc.Stats(ctx, past.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.InDelta(t, 3.5, stats.AverageRating, 0.001)
	require.Equal(t, 1, stats.Distribution[5])
	require.Equal(t, 1, stats.Distribution[2])
	require.Equal(t, 0, stats.Distribution[1])

	hostView, err := svc.HostFeedback(ctx, host.UserID)
	require.NoError(t, err)
	require.Len(t, hostView, 2)
}
