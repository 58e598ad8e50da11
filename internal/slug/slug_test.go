package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	require.Equal(t, "website-redesign", Make("  Website Redesign "))
	require.Equal(t, "q3-launch-plan", Make("Q3 -- Launch/Plan!"))
	require.Equal(t, "", Make("***"))
}

func TestUnique(t *testing.T) {
	used := map[string]bool{"launch": true, "launch-2": true}
	taken := func(_ context.Context, s string) (bool, error) { return used[s], nil }

	got, err := Unique(context.Background(), "launch", "project", taken)
	require.NoError(t, err)
	require.Equal(t, "launch-3", got)

	got, err = Unique(context.Background(), "", "project", taken)
	require.NoError(t, err)
	require.Equal(t, "project", got)

	boom := errors.New("boom")
	_, err = Unique(context.Background(), "x", "project", func(context.Context, string) (bool, error) { return false, boom })
	require.ErrorIs(t, err, boom)
}
