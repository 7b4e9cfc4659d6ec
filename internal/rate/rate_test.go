package rate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T) (*Limiter, *time.Time) {
	t.Helper()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(DefaultWindow)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestCandidateOrder(t *testing.T) {
	chain := []string{"m0", "m1", "m2", "m3"}

	t.Run("preferred first in chain", func(t *testing.T) {
		l, _ := testLimiter(t)
		require.Equal(t, chain, l.Candidates("m0", chain))
	})

	t.Run("preferred rotates chain", func(t *testing.T) {
		l, _ := testLimiter(t)
		require.Equal(t,
			[]string{"m2", "m3", "m0", "m1"},
			l.Candidates("m2", chain),
		)
	})

	t.Run("custom model prepended", func(t *testing.T) {
		l, _ := testLimiter(t)
		require.Equal(t,
			[]string{"custom", "m0", "m1", "m2", "m3"},
			l.Candidates("custom", chain),
		)
	})

	t.Run("no preference keeps chain order", func(t *testing.T) {
		l, _ := testLimiter(t)
		require.Equal(t, chain, l.Candidates("", chain))
	})
}

func TestCooldown(t *testing.T) {
	chain := []string{"m0", "m1"}

	t.Run("limited model filtered", func(t *testing.T) {
		l, _ := testLimiter(t)
		l.MarkLimited("m0")
		require.Equal(t, []string{"m1"}, l.Candidates("m0", chain))
	})

	t.Run("excluded before expiry, eligible at expiry", func(t *testing.T) {
		l, now := testLimiter(t)
		l.MarkLimited("m0")

		*now = now.Add(DefaultWindow - time.Millisecond)
		require.True(t, l.Limited("m0"))

		*now = now.Add(time.Millisecond)
		require.False(t, l.Limited("m0"))
		require.Equal(t, chain, l.Candidates("m0", chain))
	})

	t.Run("expired entry removed on lookup", func(t *testing.T) {
		l, now := testLimiter(t)
		l.MarkLimited("m0")
		*now = now.Add(DefaultWindow + time.Second)
		require.False(t, l.Limited("m0"))
		require.Empty(t, l.until)
	})

	t.Run("mark refreshes expiry", func(t *testing.T) {
		l, now := testLimiter(t)
		l.MarkLimited("m0")
		*now = now.Add(30 * time.Second)
		l.MarkLimited("m0")
		*now = now.Add(45 * time.Second)
		require.True(t, l.Limited("m0"))
	})
}

func TestPeek(t *testing.T) {
	chain := []string{"m0", "m1"}
	l, now := testLimiter(t)
	l.MarkLimited("m1")

	require.Equal(t, []string{"m0"}, l.Peek("m0", chain))

	// Peek never mutates: the expired entry must survive until a real
	// lookup removes it.
	*now = now.Add(DefaultWindow + time.Second)
	require.Equal(t, chain, l.Peek("m0", chain))
	require.Contains(t, l.until, "m1")
}

func TestWait(t *testing.T) {
	t.Run("minimum across entries", func(t *testing.T) {
		l, now := testLimiter(t)
		l.MarkLimited("m0")
		*now = now.Add(20 * time.Second)
		l.MarkLimited("m1")
		require.Equal(t, 40*time.Second, l.Wait())
	})

	t.Run("never below one second", func(t *testing.T) {
		l, now := testLimiter(t)
		l.MarkLimited("m0")
		*now = now.Add(DefaultWindow - 200*time.Millisecond)
		require.Equal(t, time.Second, l.Wait())
	})

	t.Run("empty table", func(t *testing.T) {
		l, _ := testLimiter(t)
		require.Equal(t, time.Second, l.Wait())
	})
}
