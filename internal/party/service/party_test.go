package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
)

func TestCreatePartyValidation(t *testing.T) {
	s, _ := newTestStore(t)
	svc := &PartyService{Store: s}
	host := seedUser(t, s, "host")
	when := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		in   PartyInput
	}{
		{"missing title", PartyInput{DateTime: when}},
		{"missing date", PartyInput{Title: "x"}},
		{"negative capacity", PartyInput{Title: "x", DateTime: when, MaxAttendees: -1}},
		{"payment without amount", PartyInput{Title: "x", DateTime: when,
			Payment: domain.PaymentRequirement{Required: true, Recipient: "@h"}}},
		{"payment without recipient", PartyInput{Title: "x", DateTime: when,
			Payment: domain.PaymentRequirement{Required: true, Amount: 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), host, tt.in)
			require.ErrorIs(t, err, ErrInvalidParty)
		})
	}
}

func TestCreateParty(t *testing.T) {
	s, _ := newTestStore(t)
	svc := &PartyService{Store: s}
	host := seedUser(t, s, "host")

	p, err := svc.Create(context.Background(), host, PartyInput{
		Title:        "  Halloween  ",
		Location:     "Burton Hall",
		DateTime:     time.Date(2026, 10, 31, 21, 0, 0, 0, time.UTC),
		MaxAttendees: 50,
	})
	require.NoError(t, err)
	require.Equal(t, "Halloween", p.Title)
	require.Equal(t, host.UserID, p.HostID)
	require.Equal(t, "host", p.HostName)
	require.Equal(t, "Carleton College", p.University)
	require.Equal(t, []string{host.UserID}, p.Attendees)
}

func TestUpdateParty(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &PartyService{Store: s}
	members := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	guest := seedUser(t, s, "guest")
	p := seedParty(t, s, host, PartyInput{MaxAttendees: 10})
	_, err := members.Join(ctx, p.ID, guest)
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.Update(ctx, guest, p.ID, domain.PartyPatch{Title: &title})
	require.ErrorIs(t, err, ErrPermissionDenied)

	one := 1
	_, err = svc.Update(ctx, host, p.ID, domain.PartyPatch{MaxAttendees: &one})
	require.ErrorIs(t, err, ErrInvalidParty, "capacity below attendee count")

	two := 2
	updated, err := svc.Update(ctx, host, p.ID, domain.PartyPatch{Title: &title, MaxAttendees: &two})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, 2, updated.MaxAttendees)
	require.Equal(t, host.UserID, updated.HostID)

	_, err = svc.Update(ctx, host, "01HZZZZZZZZZZZZZZZZZZZZZZZ", domain.PartyPatch{})
	require.ErrorIs(t, err, ErrPartyNotFound)
}

func TestListingsFallBackWhenIndexIsMissing(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	m := metrics.New()
	svc := &PartyService{Store: s, Metrics: m}
	members := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	guest := seedUser(t, s, "guest")
	base := time.Now().Add(time.Hour)
	late := seedParty(t, s, host, PartyInput{Title: "late", DateTime: base.Add(48 * time.Hour)})
	early := seedParty(t, s, host, PartyInput{Title: "early", DateTime: base})
	_, err := members.Join(ctx, late.ID, guest)
	require.NoError(t, err)

	indexedUni, err := svc.ListByUniversity(ctx, "Carleton College")
	require.NoError(t, err)
	indexedHosted, err := svc.ListHostedBy(ctx, host.UserID)
	require.NoError(t, err)
	indexedJoined, err := svc.ListJoinedBy(ctx, guest.UserID)
	require.NoError(t, err)
	require.Equal(t, []string{early.ID, late.ID}, ids(indexedUni))

	for _, stmt := range []string{
		`DROP INDEX idx_parties_university_date`,
		`DROP INDEX idx_parties_host`,
		`DROP INDEX idx_party_attendees_user`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	uni, err := svc.ListByUniversity(ctx, "Carleton College")
	require.NoError(t, err)
	require.Equal(t, ids(indexedUni), ids(uni))

	hosted, err := svc.ListHostedBy(ctx, host.UserID)
	require.NoError(t, err)
	require.Equal(t, ids(indexedHosted), ids(hosted))

	joined, err := svc.ListJoinedBy(ctx, guest.UserID)
	require.NoError(t, err)
	require.Equal(t, ids(indexedJoined), ids(joined))

	require.Equal(t, 1.0, counterValue(t, m.Registry, "partyd_store_index_fallbacks_total",
		map[string]string{"query": "list_by_university"}))
	require.Equal(t, 1.0, counterValue(t, m.Registry, "partyd_store_index_fallbacks_total",
		map[string]string{"query": "list_joined_by"}))

	t.Run("scan limit truncates", func(t *testing.T) {
		svc.ScanLimit = 1
		uni, err := svc.ListByUniversity(ctx, "Carleton College")
		require.NoError(t, err)
		require.Len(t, uni, 1)
	})
}

func TestListJoinedByUnknownUser(t *testing.T) {
	s, _ := newTestStore(t)
	svc := &PartyService{Store: s}

	_, err := svc.ListJoinedBy(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func ids(parties []domain.Party) []string {
	out := make([]string, 0, len(parties))
	for _, p := range parties {
		out = append(out, p.ID)
	}
	return out
}
