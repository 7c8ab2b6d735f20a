package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OakLoaf/NoteBlockLib/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("mario.nbs", 0x1234567890abcdef))
	require.NoError(t, tracker.Track("zelda.nbs", 0xfedcba0987654321))

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Equal(t, []string{"mario.nbs", "zelda.nbs"}, tracker.Names())
}

func TestTracker_TrackErrors(t *testing.T) {
	tracker := NewTracker()

	require.ErrorIs(t, tracker.Track("", 1), errs.ErrEmptySongName)
	require.Equal(t, 0, tracker.Count())

	require.NoError(t, tracker.Track("theme.mid", 1))
	require.ErrorIs(t, tracker.Track("theme.mid", 1), errs.ErrDuplicateSongName)
	require.Equal(t, 1, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Collision(t *testing.T) {
	tracker := NewTracker()

	require.NoError(t, tracker.Track("a.nbs", 42))
	require.NoError(t, tracker.Track("b.nbs", 42))

	require.True(t, tracker.HasCollision())
	require.Equal(t, []string{"a.nbs", "b.nbs"}, tracker.Names())

	// still a duplicate even though the id collides
	require.ErrorIs(t, tracker.Track("b.nbs", 42), errs.ErrDuplicateSongName)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	require.NoError(t, tracker.Track("a.nbs", 1))
	require.NoError(t, tracker.Track("b.nbs", 1))

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Names())
	require.NoError(t, tracker.Track("a.nbs", 1))
}
