package session

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/smartallies/incident/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_AcquireCreatesInitialContext(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return fixed }))

	lease := s.Acquire("s1")
	snap := lease.Snapshot()
	lease.Release()

	assert.True(t, lease.Created())
	assert.Equal(t, "s1", snap.SessionID)
	assert.Equal(t, domain.StateInitial, snap.WorkflowState)
	assert.Equal(t, fixed, snap.CreatedAt)
	assert.Empty(t, snap.CollectedFields)
	_, ok := s.Get("s1")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_CommitOnlyPersistsWhenCalled(t *testing.T) {
	s := NewStore()
	now := time.Now()

	lease := s.Acquire("s1")
	working := lease.Snapshot()
	working.WorkflowState = domain.StateCollectingDetails
	working.SetField(domain.FieldWhat, "leak", now)
	lease.Release()

	got, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, domain.StateInitial, got.WorkflowState)
	assert.Empty(t, got.CollectedFields)

	lease = s.Acquire("s1")
	working = lease.Snapshot()
	working.WorkflowState = domain.StateCollectingDetails
	working.SetField(domain.FieldWhat, "leak", now)
	lease.Commit(working)
	lease.Release()

	got, _ = s.Get("s1")
	assert.Equal(t, domain.StateCollectingDetails, got.WorkflowState)
	assert.Equal(t, "leak", got.Field(domain.FieldWhat))
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("s1")

	snap, ok := s.Get("s1")
	require.True(t, ok)
	snap.WorkflowState = domain.StateCompleted

	again, _ := s.Get("s1")
	assert.Equal(t, domain.StateInitial, again.WorkflowState)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("s1")

	assert.True(t, s.Clear("s1"))
	_, ok := s.Get("s1")
	assert.False(t, ok)
	assert.False(t, s.Clear("s1"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ClearDuringLeaseDropsCommit(t *testing.T) {
	s := NewStore()

	lease := s.Acquire("s1")
	require.True(t, s.Clear("s1"))
	working := lease.Snapshot()
	working.WorkflowState = domain.StateCompleted
	lease.Commit(working)
	lease.Release()

	fresh := s.GetOrCreate("s1")
	assert.Equal(t, domain.StateInitial, fresh.WorkflowState)
}

func TestStore_ReleaseIsIdempotent(t *testing.T) {
	s := NewStore()
	lease := s.Acquire("s1")
	lease.Release()
	lease.Release()

	next := s.Acquire("s1")
	next.Release()
}

func TestStore_ConcurrentCreateHasSingleWinner(t *testing.T) {
	s := NewStore()
	var created atomic.Int32

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			lease := s.Acquire("shared")
			if lease.Created() {
				created.Add(1)
			}
			lease.Release()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, 1, s.Len())
}

func TestStore_SameSessionTurnsDoNotLoseUpdates(t *testing.T) {
	s := NewStore()
	const turns = 50

	var g errgroup.Group
	for i := 0; i < turns; i++ {
		g.Go(func() error {
			lease := s.Acquire("s1")
			defer lease.Release()
			working := lease.Snapshot()
			working.SetField(fmt.Sprintf("f%02d", i), "v", time.Now())
			lease.Commit(working)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	got, _ := s.Get("s1")
	assert.Len(t, got.CollectedFields, turns)
}

func TestStore_DisjointSessionsAreIndependent(t *testing.T) {
	s := NewStore()

	held := s.Acquire("a")
	defer held.Release()

	done := make(chan struct{})
	go func() {
		defer close(done)
		other := s.Acquire("b")
		other.Release()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquiring session b blocked on session a")
	}
}
