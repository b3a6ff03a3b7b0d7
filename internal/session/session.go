// Package session tracks per-chat conversational state: which multi-step
// flow a user is in and the answers collected so far. State lives in
// memory with a TTL, so an abandoned flow silently expires.
package session

import (
	"container/list"
	"sync"
	"time"

	"finbot/internal/core"
)

// Flow identifies a multi-step conversation.
type Flow int

const (
	FlowNone Flow = iota
	FlowRegistration
	FlowTransaction
	FlowBudget
	FlowSearch
	FlowGoalName
	FlowGoalContribute
)

// Step identifies where inside a flow the user is.
type Step int

const (
	StepNone Step = iota
	StepAwaitName
	StepAwaitAmount
	StepAwaitCategory
	StepAwaitMethod
	StepAwaitBudget
	StepAwaitQuery
	StepAwaitGoalName
	StepAwaitGoalTarget
	StepAwaitGoalDeadline
	StepAwaitContribution
)

// State is the pending data of one chat's active flow.
type State struct {
	Flow Flow
	Step Step

	// transaction flow
	Kind     core.Kind
	Method   core.Method
	Amount   float64
	Category string

	// goal flows
	GoalID     int64
	GoalName   string
	GoalTarget float64
}

// Store is a TTL LRU map from chat id to flow state.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[int64]*list.Element
	lru     *list.List
}

type entry struct {
	chatID    int64
	state     State
	expiresAt time.Time
}

func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[int64]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the chat's active state, if any. Expired states count as
// absent and are dropped on access.
func (s *Store) Get(chatID int64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, exists := s.items[chatID]
	if !exists {
		return State{}, false
	}

	e := elem.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		s.removeElement(elem)
		return State{}, false
	}

	s.lru.MoveToFront(elem)
	return e.state, true
}

// Put stores the chat's state, refreshing its TTL.
func (s *Store) Put(chatID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		chatID:    chatID,
		state:     state,
		expiresAt: time.Now().Add(s.ttl),
	}

	if elem, exists := s.items[chatID]; exists {
		elem.Value = e
		s.lru.MoveToFront(elem)
		return
	}

	elem := s.lru.PushFront(e)
	s.items[chatID] = elem

	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
}

// Clear ends the chat's active flow.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.items[chatID]; exists {
		s.removeElement(elem)
	}
}

func (s *Store) removeElement(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(s.items, e.chatID)
	s.lru.Remove(elem)
}

// CleanExpired removes all expired states and returns how many were
// dropped.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element

	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}

	for _, elem := range toRemove {
		s.removeElement(elem)
	}
	return len(toRemove)
}

// Size returns the number of tracked chats.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
