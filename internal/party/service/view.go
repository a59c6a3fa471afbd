package service

import (
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

// ComposeView derives the per-viewer flags for a party. It is pure: the same
// inputs always give the same view. A party dated exactly now is not over.
func ComposeView(p domain.Party, viewerID string, now time.Time) domain.PartyView {
	return domain.PartyView{
		Party:       p,
		IsHost:      viewerID != "" && p.HostID == viewerID,
		IsJoined:    viewerID != "" && p.HasAttendee(viewerID),
		IsPartyOver: p.DateTime.Before(now),
		IsFull:      p.IsFull(),
	}
}

// ComposeViews maps ComposeView over a listing.
func ComposeViews(parties []domain.Party, viewerID string, now time.Time) []domain.PartyView {
	out := make([]domain.PartyView, 0, len(parties))
	for _, p := range parties {
		out = append(out, ComposeView(p, viewerID, now))
	}
	return out
}
