package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
)

func TestComposeView(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 31, 21, 0, 0, 0, time.UTC)
	p := domain.Party{
		ID:        "p1",
		HostID:    "host",
		Attendees: []string{"host", "guest"},
		DateTime:  now,
	}

	tests := []struct {
		name   string
		viewer string
		at     time.Time
		host   bool
		joined bool
		over   bool
	}{
		{"host before start", "host", now.Add(-time.Minute), true, true, false},
		{"guest after start", "guest", now.Add(time.Minute), false, true, true},
		{"stranger at exact start", "stranger", now, false, false, false},
		{"anonymous viewer", "", now.Add(time.Hour), false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ComposeView(p, tt.viewer, tt.at)
			require.Equal(t, tt.host, v.IsHost)
			require.Equal(t, tt.joined, v.IsJoined)
			require.Equal(t, tt.over, v.IsPartyOver)
			require.Equal(t, p.ID, v.ID)
		})
	}

	t.Run("full", func(t *testing.T) {
		require.False(t, ComposeView(p, "guest", now).IsFull, "no capacity set")

		capped := p
		capped.MaxAttendees = 2
		require.True(t, ComposeView(capped, "guest", now).IsFull)

		capped.MaxAttendees = 3
		require.False(t, ComposeView(capped, "guest", now).IsFull)
	})

	t.Run("pure", func(t *testing.T) {
		a := ComposeView(p, "guest", now.Add(time.Second))
		b := ComposeView(p, "guest", now.Add(time.Second))
		require.Equal(t, a, b)
	})
}
