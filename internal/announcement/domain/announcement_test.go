package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActiveAt(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	a := Announcement{Title: "Sale", StartsAt: start, EndsAt: end}

	require.True(t, a.ActiveAt(start), "window start is inclusive")
	require.True(t, a.ActiveAt(end.Add(-time.Second)))
	require.False(t, a.ActiveAt(end), "window end is exclusive")
	require.False(t, a.ActiveAt(start.Add(-time.Second)))
}

func TestValidate(t *testing.T) {
	now := time.Now().UTC()

	ok := Announcement{Title: "Sale", StartsAt: now, EndsAt: now.Add(time.Hour)}
	require.NoError(t, ok.Validate())

	untitled := Announcement{StartsAt: now, EndsAt: now.Add(time.Hour)}
	require.ErrorIs(t, untitled.Validate(), ErrInvalidWindow)

	inverted := Announcement{Title: "Sale", StartsAt: now, EndsAt: now}
	require.ErrorIs(t, inverted.Validate(), ErrInvalidWindow)
}
