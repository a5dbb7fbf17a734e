package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/pomodoro/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())
}

func TestParseRejectsGarbage(t *testing.T) {
	tests := []string{"", "   ", "not-a-ulid", "42", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := idx.Parse(in)
			require.ErrorIs(t, err, idx.ErrInvalid)
		})
	}
}

func TestMonotonicOrdering(t *testing.T) {
	// Same millisecond, still strictly increasing.
	at := time.Unix(1700000000, 0).UTC()
	prev := idx.NewAt(at)
	for range 50 {
		next := idx.NewAt(at)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)

	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
}

func TestMustParse(t *testing.T) {
	require.NotPanics(t, func() { idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV") })
	require.Panics(t, func() { idx.MustParse("nope") })
}
