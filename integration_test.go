package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	feed := NewEventFeed(256)
	rec := NewRecorder(db, feed)
	hub := NewHub(db, feed, rec)
	go hub.Run()
	t.Cleanup(func() { hub.sessions.Stop() })

	srv := httptest.NewServer(SetupRoutes(hub, t.TempDir(), "http://arena.test"))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	if err := conn.WriteJSON(Envelope{T: msgType, Data: data}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// awaitMsg reads until a text envelope of the wanted type arrives, skipping
// binary snapshot frames
func awaitMsg(t *testing.T, conn *websocket.Conn, want string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("awaiting %s: %v", want, err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		if env.T == MsgError {
			var e ErrorMsg
			json.Unmarshal(env.D, &e)
			t.Fatalf("awaiting %s, got error: %s", want, e.Msg)
		}
		if env.T == want {
			return env.D
		}
	}
	t.Fatalf("timed out awaiting %s", want)
	return nil
}

// awaitSnapshot reads until a binary snapshot frame arrives
func awaitSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("awaiting snapshot: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		snap, err := UnmarshalSnapshot(raw)
		if err != nil {
			t.Fatalf("snapshot decode: %v", err)
		}
		return snap
	}
	t.Fatal("timed out awaiting snapshot")
	return Snapshot{}
}

func TestCreateJoinAndSnapshotFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	sendMsg(t, conn, MsgCreate, CreateMsg{Name: "Host", MatchName: "Test Arena"})
	created := awaitMsg(t, conn, MsgCreated)
	var cr map[string]string
	json.Unmarshal(created, &cr)
	matchID := cr["mid"]
	if matchID == "" {
		t.Fatal("no match id in created message")
	}

	sendMsg(t, conn, MsgJoin, JoinMsg{Name: "Host", MatchID: matchID})
	awaitMsg(t, conn, MsgJoined)
	welcomeRaw := awaitMsg(t, conn, MsgWelcome)
	var welcome WelcomeMsg
	json.Unmarshal(welcomeRaw, &welcome)
	if welcome.ID == "" {
		t.Fatal("welcome carries no player id")
	}

	// Drive some input and confirm the state feed reflects the player
	sendMsg(t, conn, MsgInput, InputState{Thrust: 1})
	snap := awaitSnapshot(t, conn)
	found := false
	for _, sp := range snap.Players {
		if sp.ID == welcome.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("joined player missing from snapshot: %+v", snap.Players)
	}
}

func TestMatchListAndCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	sendMsg(t, conn, MsgCreate, CreateMsg{MatchName: "Listed"})
	created := awaitMsg(t, conn, MsgCreated)
	var cr map[string]string
	json.Unmarshal(created, &cr)

	sendMsg(t, conn, MsgList, nil)
	listRaw := awaitMsg(t, conn, MsgSessions)
	var list []SessionInfo
	json.Unmarshal(listRaw, &list)
	if len(list) != 1 || list[0].Name != "Listed" {
		t.Errorf("session list = %+v", list)
	}

	sendMsg(t, conn, MsgCheck, CheckMsg{MatchID: cr["mid"]})
	checkedRaw := awaitMsg(t, conn, MsgChecked)
	var checked CheckedMsg
	json.Unmarshal(checkedRaw, &checked)
	if !checked.Exists {
		t.Error("created match should check as existing")
	}

	sendMsg(t, conn, MsgCheck, CheckMsg{MatchID: "bogus"})
	checkedRaw = awaitMsg(t, conn, MsgChecked)
	json.Unmarshal(checkedRaw, &checked)
	if checked.Exists {
		t.Error("bogus match id should not exist")
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	sendMsg(t, conn, MsgRegister, RegisterMsg{Username: "ace", Password: "hunter2"})
	authRaw := awaitMsg(t, conn, MsgAuthOK)
	var auth AuthOKMsg
	json.Unmarshal(authRaw, &auth)
	if auth.PlayerID == 0 || auth.Token == "" {
		t.Fatalf("register response incomplete: %+v", auth)
	}

	// Token reattach on a fresh connection
	conn2 := dialWS(t, srv)
	sendMsg(t, conn2, MsgAuth, AuthMsg{Token: auth.Token})
	auth2Raw := awaitMsg(t, conn2, MsgAuthOK)
	var auth2 AuthOKMsg
	json.Unmarshal(auth2Raw, &auth2)
	if auth2.PlayerID != auth.PlayerID || auth2.Username != "ace" {
		t.Errorf("token reattach mismatch: %+v", auth2)
	}

	sendMsg(t, conn2, MsgProfile, nil)
	profRaw := awaitMsg(t, conn2, MsgProfileData)
	var prof ProfileDataMsg
	json.Unmarshal(profRaw, &prof)
	if prof.Username != "ace" {
		t.Errorf("profile username = %q", prof.Username)
	}
}

func TestLeaderboardRequest(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	sendMsg(t, conn, MsgRegister, RegisterMsg{Username: "ace", Password: "hunter2"})
	awaitMsg(t, conn, MsgAuthOK)

	sendMsg(t, conn, MsgLeaderboard, LeaderboardMsg{By: "kills", Limit: 5})
	boardRaw := awaitMsg(t, conn, MsgLeaderboardData)
	var board []LeaderboardEntry
	json.Unmarshal(boardRaw, &board)
	if len(board) != 1 || board[0].Username != "ace" {
		t.Errorf("leaderboard = %+v", board)
	}
}

func TestControllerAttachFlow(t *testing.T) {
	srv, hub := newTestServer(t)
	viewer := dialWS(t, srv)

	sendMsg(t, viewer, MsgCreate, CreateMsg{MatchName: "Ctrl"})
	created := awaitMsg(t, viewer, MsgCreated)
	var cr map[string]string
	json.Unmarshal(created, &cr)
	sendMsg(t, viewer, MsgJoin, JoinMsg{Name: "Pilot", MatchID: cr["mid"]})
	awaitMsg(t, viewer, MsgJoined)
	welcomeRaw := awaitMsg(t, viewer, MsgWelcome)
	var welcome WelcomeMsg
	json.Unmarshal(welcomeRaw, &welcome)

	ctrl := dialWS(t, srv)
	sendMsg(t, ctrl, MsgControl, ControlMsg{MatchID: cr["mid"], PlayerID: welcome.ID})
	awaitMsg(t, ctrl, MsgControlOK)
	awaitMsg(t, viewer, MsgCtrlOn)

	// Controller input reaches the match
	sendMsg(t, ctrl, MsgInput, InputState{Thrust: 1})
	time.Sleep(100 * time.Millisecond)
	sess := hub.sessions.GetSession(cr["mid"])
	if sess == nil {
		t.Fatal("session vanished")
	}
	body, ok := sess.Match.World().Body(welcome.ID)
	if !ok {
		t.Fatal("player body missing")
	}
	if body.Velocity().Len() == 0 {
		t.Error("controller thrust produced no movement")
	}
}

func TestQREndpoint(t *testing.T) {
	srv, hub := newTestServer(t)
	sess := hub.sessions.CreateSession("QR", 0)

	resp, err := http.Get(srv.URL + "/qr/" + sess.ID)
	if err != nil {
		t.Fatalf("qr get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("qr status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("qr content type = %q", ct)
	}

	resp2, err := http.Get(srv.URL + "/qr/bogus")
	if err != nil {
		t.Fatalf("qr get bogus: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("bogus qr status = %d, want 404", resp2.StatusCode)
	}
}
