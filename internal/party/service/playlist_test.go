package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaylists(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	svc := &PlaylistService{Store: s}
	members := &MembershipService{Store: s}

	host := seedUser(t, s, "host")
	dj := seedUser(t, s, "dj")
	guest := seedUser(t, s, "guest")
	outsider := seedUser(t, s, "outsider")
	p := seedParty(t, s, host, PartyInput{})
	_, err := members.Join(ctx, p.ID, dj)
	require.NoError(t, err)
	_, err = members.Join(ctx, p.ID, guest)
	require.NoError(t, err)

	_, err = svc.Create(ctx, p.ID, outsider, PlaylistInput{Name: "bangers"})
	require.ErrorIs(t, err, ErrNotAttendee)

	pl, err := svc.Create(ctx, p.ID, dj, PlaylistInput{Name: "bangers", VoteRequired: true, MinVotes: 2})
	require.NoError(t, err)

	plain, err := svc.Create(ctx, p.ID, dj, PlaylistInput{Name: "chill"})
	require.NoError(t, err)
	require.Equal(t, 1, plain.MinVotes)

	lists, err := svc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	first, err := svc.AddSong(ctx, pl.ID, dj, SongInput{Title: "Song A", Artist: "X"})
	require.NoError(t, err)
	require.Equal(t, 1, first.Votes)
	require.Equal(t, []string{dj.UserID}, first.Voters)
	require.False(t, first.Played)

	second, err := svc.AddSong(ctx, pl.ID, guest, SongInput{Title: "Song B"})
	require.NoError(t, err)

	_, err = svc.AddSong(ctx, pl.ID, outsider, SongInput{Title: "Song C"})
	require.ErrorIs(t, err, ErrNotAttendee)

	vote, err := svc.ToggleVote(ctx, second.ID, host)
	require.NoError(t, err)
	require.True(t, vote.Voted)
	require.Equal(t, 2, vote.Song.Votes)

	songs, err := svc.Songs(ctx, pl.ID, false)
	require.NoError(t, err)
	require.Equal(t, second.ID, songs[0].ID, "most voted first")

	vote, err = svc.ToggleVote(ctx, second.ID, host)
	require.NoError(t, err)
	require.False(t, vote.Voted)
	require.Equal(t, 1, vote.Song.Votes)

	songs, err = svc.Songs(ctx, pl.ID, false)
	require.NoError(t, err)
	require.Equal(t, first.ID, songs[0].ID, "ties go to the earliest added")

	_, err = svc.CurrentSong(ctx, pl.ID)
	require.ErrorIs(t, err, ErrNoCurrentSong)

	_, err = svc.MarkPlayed(ctx, first.ID, guest)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.MarkPlayed(ctx, first.ID, dj)
	require.ErrorIs(t, err, ErrNotEnoughVotes)

	_, err = svc.ToggleVote(ctx, first.ID, guest)
	require.NoError(t, err)

	played, err := svc.MarkPlayed(ctx, first.ID, host)
	require.NoError(t, err)
	require.True(t, played.Played)

	current, err := svc.CurrentSong(ctx, pl.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, current.ID)

	songs, err = svc.Songs(ctx, pl.ID, false)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	songs, err = svc.Songs(ctx, pl.ID, true)
	require.NoError(t, err)
	require.Len(t, songs, 2)

	_, err = svc.ToggleVote(ctx, "missing", host)
	require.ErrorIs(t, err, ErrSongNotFound)
	_, err = svc.Songs(ctx, "missing", false)
	require.ErrorIs(t, err, ErrPlaylistNotFound)
}
