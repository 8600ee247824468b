package main

import (
	"sync"
	"time"
)

const maxSessions = 100

// SessionIdleTimeout is how long a humanless match lingers before the
// reaper stops it. A var so tests can shorten it.
var SessionIdleTimeout = 5 * time.Minute

// Session is one hosted match that controllers and viewers can join
type Session struct {
	ID         string
	Name       string
	Match      *Match
	lastActive time.Time
}

// SessionManager creates, lists, and reaps matches
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	feed     *EventFeed
	rec      *Recorder
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager starts the manager and its idle reaper
func NewSessionManager(feed *EventFeed, rec *Recorder) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
		feed:     feed,
		rec:      rec,
		stop:     make(chan struct{}),
	}
	go sm.reaper()
	return sm
}

// CreateSession creates a new match. Returns nil when the limit is reached.
func (sm *SessionManager) CreateSession(name string, bots int) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	match := NewMatch(id, sm.feed, bots)
	if sm.rec != nil {
		match.SetResultSink(sm.rec.RecordResult)
	}
	sess := &Session{
		ID:         id,
		Name:       name,
		Match:      match,
		lastActive: time.Now(),
	}
	sm.sessions[id] = sess
	go match.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive refreshes the idle clock for a session
func (sm *SessionManager) MarkActive(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sess, ok := sm.sessions[id]; ok {
		sess.lastActive = time.Now()
	}
}

// RemovePlayer removes a player from a session and reaps the session when
// no humans remain
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Match.RemovePlayer(playerID)

	if sess.Match.HumanCount() == 0 {
		sess.Match.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Players: sess.Match.PlayerCount(),
		})
	}
	return list
}

// Stop shuts down the reaper and every hosted match
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stop) })
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sess := range sm.sessions {
		sess.Match.Stop()
		delete(sm.sessions, id)
	}
}

// reaper stops matches that have sat without humans past the idle timeout
func (sm *SessionManager) reaper() {
	ticker := time.NewTicker(SessionIdleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			sm.mu.Lock()
			for id, sess := range sm.sessions {
				if sess.Match.HumanCount() == 0 && now.Sub(sess.lastActive) > SessionIdleTimeout {
					sess.Match.Stop()
					delete(sm.sessions, id)
				}
			}
			sm.mu.Unlock()
		case <-sm.stop:
			return
		}
	}
}
