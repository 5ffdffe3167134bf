package state

import (
	"encoding/json"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/store"
	"go.uber.org/zap"
)

// Storage is durable key/value storage for the persisted snapshot.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// isoMillis matches the ISO-8601 form browsers produce.
const isoMillis = "2006-01-02T15:04:05.000Z"

// NewNotification stamps a notification with an id and timestamp taken from
// now. The id is the Unix time in milliseconds.
func NewNotification(now time.Time, typ novel.NotificationType, title, message string) novel.Notification {
	return novel.Notification{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: now.UTC().Format(isoMillis),
	}
}

// Store wraps State with dispatch, persistence and change listeners.
type Store struct {
	mu        sync.Mutex
	state     State
	kv        Storage
	log       *zap.Logger
	now       func() time.Time
	listeners []func(State)
	persisted string
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithClock overrides the time source used for notifications.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore builds a store and rehydrates it from kv. A nil kv keeps
// everything in memory.
func NewStore(kv Storage, opts ...Option) *Store {
	s := &Store{
		state: Default(),
		kv:    kv,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("component", "state"))
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	if s.kv == nil {
		return
	}
	raw, ok, err := s.kv.Get(store.KeyAppState)
	if err != nil {
		s.log.Warn("read snapshot", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.Warn("corrupt snapshot, using defaults", zap.Error(err))
		return
	}
	s.state = Reduce(s.state, Rehydrate{Snapshot: snap})
	s.persisted = raw
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies actions in order, persists the snapshot once, then calls
// listeners. Persistence failures are logged and otherwise ignored.
func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	st := s.state
	s.persist(st)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

// persist must be called with mu held.
func (s *Store) persist(st State) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(st.Snapshot())
	if err != nil {
		s.log.Error("encode snapshot", zap.Error(err))
		return
	}
	if string(data) == s.persisted {
		return
	}
	if err := s.kv.Set(store.KeyAppState, string(data)); err != nil {
		s.log.Error("persist snapshot", zap.Error(err))
		return
	}
	s.persisted = string(data)
}

// Notify adds a notification and returns it. The id is bumped past any live
// notification created in the same millisecond.
func (s *Store) Notify(typ novel.NotificationType, title, message string) novel.Notification {
	s.mu.Lock()
	now := s.now()
	live := make(map[string]bool, len(s.state.UI.Notifications))
	for _, n := range s.state.UI.Notifications {
		live[n.ID] = true
	}
	s.mu.Unlock()

	n := NewNotification(now, typ, title, message)
	for live[n.ID] {
		now = now.Add(time.Millisecond)
		n = NewNotification(now, typ, title, message)
	}
	s.Dispatch(AddNotification{Notification: n})
	return n
}

// Subscribe registers fn to run after every dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
