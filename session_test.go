package main

import "testing"

func newTestSessions(t *testing.T) *SessionManager {
	t.Helper()
	sm := NewSessionManager(NewEventFeed(64), nil)
	t.Cleanup(sm.Stop)
	return sm
}

func TestCreateAndGetSession(t *testing.T) {
	sm := newTestSessions(t)
	sess := sm.CreateSession("Alpha", 0)
	if sess == nil {
		t.Fatal("create failed")
	}
	if got := sm.GetSession(sess.ID); got != sess {
		t.Error("lookup by id returned a different session")
	}
	if sm.GetSession("bogus") != nil {
		t.Error("bogus id should return nil")
	}
}

func TestListSessions(t *testing.T) {
	sm := newTestSessions(t)
	sm.CreateSession("Alpha", 0)
	sm.CreateSession("Beta", 2)

	list := sm.ListSessions()
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	names := map[string]bool{}
	for _, s := range list {
		names[s.Name] = true
	}
	if !names["Alpha"] || !names["Beta"] {
		t.Errorf("list names = %v", names)
	}
}

func TestLastHumanLeavingReapsSession(t *testing.T) {
	sm := newTestSessions(t)
	sess := sm.CreateSession("Alpha", 0)
	p := sess.Match.AddPlayer("Solo")

	sm.RemovePlayer(sess.ID, p.ID)

	if sm.GetSession(sess.ID) != nil {
		t.Error("empty session should be reaped on last human leave")
	}
}

func TestHumanLeavingWithOthersKeepsSession(t *testing.T) {
	sm := newTestSessions(t)
	sess := sm.CreateSession("Alpha", 0)
	a := sess.Match.AddPlayer("A")
	sess.Match.AddPlayer("B")

	sm.RemovePlayer(sess.ID, a.ID)

	if sm.GetSession(sess.ID) == nil {
		t.Error("session with remaining humans should survive")
	}
}

func TestSessionLimit(t *testing.T) {
	sm := newTestSessions(t)
	for i := 0; i < maxSessions; i++ {
		if sm.CreateSession("S", 0) == nil {
			t.Fatalf("create %d failed below the limit", i)
		}
	}
	if sm.CreateSession("Overflow", 0) != nil {
		t.Error("create past the session limit should fail")
	}
}
