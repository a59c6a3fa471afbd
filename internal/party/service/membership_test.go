package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
)

func TestJoinRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	m := metrics.New()
	svc := &MembershipService{Store: s, Metrics: m}

	host := seedUser(t, s, "host")
	a := seedUser(t, s, "alice")
	b := seedUser(t, s, "bob")
	p := seedParty(t, s, host, PartyInput{MaxAttendees: 2})

	res, err := svc.Join(ctx, p.ID, a)
	require.NoError(t, err)
	require.False(t, res.AlreadyJoined)
	require.ElementsMatch(t, []string{host.UserID, a.UserID}, res.Party.Attendees)

	_, err = svc.Join(ctx, p.ID, b)
	require.ErrorIs(t, err, ErrPartyFull)

	after, err := s.Parties().GetParty(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, after.Attendees, 2)

	require.Equal(t, 1.0, counterValue(t, m.Registry, "partyd_membership_operations_total",
		map[string]string{"op": "join", "result": "ok"}))
	require.Equal(t, 1.0, counterValue(t, m.Registry, "partyd_membership_operations_total",
		map[string]string{"op": "join", "result": "full"}))
}

func TestJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	p := seedParty(t, s, host, PartyInput{MaxAttendees: 1})

	res, err := svc.Join(ctx, p.ID, host)
	require.NoError(t, err)
	require.True(t, res.AlreadyJoined)
	require.Equal(t, []string{host.UserID}, res.Party.Attendees)
}

func TestJoinUnknownParty(t *testing.T) {
	s, _ := newTestStore(t)
	svc := &MembershipService{Store: s}
	u := seedUser(t, s, "alice")

	_, err := svc.Join(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ", u)
	require.ErrorIs(t, err, ErrPartyNotFound)

	err = svc.Leave(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ", u)
	require.ErrorIs(t, err, ErrPartyNotFound)
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	guest := seedUser(t, s, "guest")
	p := seedParty(t, s, host, PartyInput{})

	t.Run("host cannot leave", func(t *testing.T) {
		require.ErrorIs(t, svc.Leave(ctx, p.ID, host), ErrHostCannotLeave)
	})

	t.Run("join then leave restores attendees", func(t *testing.T) {
		before, err := s.Parties().GetParty(ctx, p.ID)
		require.NoError(t, err)

		_, err = svc.Join(ctx, p.ID, guest)
		require.NoError(t, err)
		require.NoError(t, svc.Leave(ctx, p.ID, guest))

		after, err := s.Parties().GetParty(ctx, p.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, before.Attendees, after.Attendees)
	})

	t.Run("leaving twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Leave(ctx, p.ID, guest))
	})
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	p := seedParty(t, s, host, PartyInput{MaxAttendees: 5})

	joiners := make([]domain.Identity, 10)
	for i := range joiners {
		joiners[i] = seedUser(t, s, "joiner"+string(rune('a'+i)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)
	for _, u := range joiners {
		wg.Add(1)
		go func(u domain.Identity) {
			defer wg.Done()
			_, err := svc.Join(ctx, p.ID, u)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrPartyFull):
				full++
			default:
				t.Errorf("unexpected join error: %v", err)
			}
		}(u)
	}
	wg.Wait()

	require.Equal(t, 4, succeeded)
	require.Equal(t, 6, full)

	n, err := s.Parties().CountAttendees(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestMembershipClosesOnceThePartyStarts(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	m := metrics.New()

	host := seedUser(t, s, "host")
	guest := seedUser(t, s, "guest")
	late := seedUser(t, s, "late")
	p := seedParty(t, s, host, PartyInput{DateTime: time.Now().Add(2 * time.Hour)})

	before := &MembershipService{Store: s, Metrics: m}
	_, err := before.Join(ctx, p.ID, guest)
	require.NoError(t, err)

	after := &MembershipService{Store: s, Metrics: m, Now: func() time.Time { return time.Now().Add(3 * time.Hour) }}

	_, err = after.Join(ctx, p.ID, late)
	require.ErrorIs(t, err, ErrPartyOver)
	require.ErrorIs(t, after.Leave(ctx, p.ID, guest), ErrPartyOver)

	got, err := s.Parties().GetParty(ctx, p.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{host.UserID, guest.UserID}, got.Attendees)

	require.Equal(t, 1.0, counterValue(t, m.Registry, "partyd_membership_operations_total",
		map[string]string{"op": "join", "result": "party_over"}))
	require.Equal(t, 1.0, counterValue(t, m.Registry, "partyd_membership_operations_total",
		map[string]string{"op": "leave", "result": "party_over"}))
}
