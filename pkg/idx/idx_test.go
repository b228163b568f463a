package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/bartab-sso/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	before := time.Now()
	id := idx.New()

	u, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
	require.WithinDuration(t, before, ulid.Time(u.Time()), time.Second)
}

func TestNew_Monotonic(t *testing.T) {
	prev := idx.New()
	for range 1000 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestNew_Concurrent(t *testing.T) {
	const n = 50

	var (
		mu   sync.Mutex
		seen = make(map[idx.ID]struct{}, n)
		wg   sync.WaitGroup
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := idx.New()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
}
