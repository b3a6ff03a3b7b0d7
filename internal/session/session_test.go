package session

import (
	"testing"
	"time"

	"finbot/internal/core"
)

func TestStorePutGet(t *testing.T) {
	s := NewStore(10, time.Minute)

	if _, ok := s.Get(1); ok {
		t.Fatal("empty store must report no state")
	}

	s.Put(1, State{Flow: FlowTransaction, Step: StepAwaitAmount, Kind: core.KindExpense})

	got, ok := s.Get(1)
	if !ok {
		t.Fatal("state lost")
	}
	if got.Flow != FlowTransaction || got.Step != StepAwaitAmount || got.Kind != core.KindExpense {
		t.Errorf("got %+v", got)
	}

	// overwrite replaces the whole state
	s.Put(1, State{Flow: FlowBudget, Step: StepAwaitBudget})
	got, _ = s.Get(1)
	if got.Flow != FlowBudget || got.Kind != "" {
		t.Errorf("overwrite kept old fields: %+v", got)
	}
	if s.Size() != 1 {
		t.Errorf("Size = %d, want 1", s.Size())
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(10, time.Minute)
	s.Put(1, State{Flow: FlowSearch})
	s.Clear(1)
	s.Clear(2) // absent chat is a no-op

	if _, ok := s.Get(1); ok {
		t.Error("cleared state still present")
	}
	if s.Size() != 0 {
		t.Errorf("Size = %d, want 0", s.Size())
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	s := NewStore(10, 10*time.Millisecond)
	s.Put(1, State{Flow: FlowRegistration})

	time.Sleep(20 * time.Millisecond)

	if _, ok := s.Get(1); ok {
		t.Error("expired state returned")
	}
	if s.Size() != 0 {
		t.Errorf("expired state not dropped on access, Size = %d", s.Size())
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	s := NewStore(2, time.Minute)
	s.Put(1, State{Flow: FlowSearch})
	s.Put(2, State{Flow: FlowSearch})
	s.Get(1) // touch 1 so 2 is the eviction candidate
	s.Put(3, State{Flow: FlowSearch})

	if _, ok := s.Get(2); ok {
		t.Error("least recently used chat survived eviction")
	}
	if _, ok := s.Get(1); !ok {
		t.Error("recently used chat evicted")
	}
	if s.Size() != 2 {
		t.Errorf("Size = %d, want 2", s.Size())
	}
}

func TestCleanExpired(t *testing.T) {
	s := NewStore(10, 10*time.Millisecond)
	s.Put(1, State{Flow: FlowSearch})
	s.Put(2, State{Flow: FlowSearch})

	time.Sleep(20 * time.Millisecond)
	s.Put(3, State{Flow: FlowSearch})

	if got := s.CleanExpired(); got != 2 {
		t.Errorf("CleanExpired = %d, want 2", got)
	}
	if _, ok := s.Get(3); !ok {
		t.Error("live state dropped")
	}
}
