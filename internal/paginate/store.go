// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paginate

import "sync"

// Store tracks the live session of each conversation. A conversation has at
// most one session; putting a new one replaces and closes the old one.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put makes s the live session for conversation. The session removes itself
// from the store when it is released.
func (st *Store) Put(conversation string, s *Session) {
	st.mu.Lock()
	old := st.sessions[conversation]
	st.sessions[conversation] = s
	st.mu.Unlock()

	s.OnRelease(func(Reason) {
		st.mu.Lock()
		if st.sessions[conversation] == s {
			delete(st.sessions, conversation)
		}
		st.mu.Unlock()
	})

	if old != nil && old != s {
		old.closeWith(ReasonReplaced)
	}
}

// Get returns the live session for conversation.
func (st *Store) Get(conversation string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[conversation]
	return s, ok
}

// Remove closes the live session for conversation, if any.
func (st *Store) Remove(conversation string) {
	if s, ok := st.Get(conversation); ok {
		s.Close()
	}
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// CloseAll closes every live session.
func (st *Store) CloseAll() {
	st.mu.Lock()
	live := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		live = append(live, s)
	}
	st.mu.Unlock()

	for _, s := range live {
		s.Close()
	}
}
