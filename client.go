package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 80
	maxMatchNameLen   = 30
)

// Client represents a WebSocket connection
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	playerID     string
	matchID      string
	remoteAddr   string
	isController bool
	msgCount     int
	msgResetAt   time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}
		if !c.allowMessage() {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Compact input frames: 6 bytes [0x01, turn_hi, turn_lo, thrust_hi, thrust_lo, flags]
		if msgType == websocket.BinaryMessage && len(message) == 6 && message[0] == 0x01 {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// allowMessage enforces the per-connection message budget, one-second windows
func (c *Client) allowMessage() bool {
	now := time.Now()
	if now.After(c.msgResetAt) {
		c.msgCount = 0
		c.msgResetAt = now.Add(time.Second)
	}
	c.msgCount++
	return c.msgCount <= maxMessagesPerSec
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgLeave:
		c.handleLeave()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgControl:
		c.handleControl(env.D)
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	case MsgLeaderboard:
		c.handleLeaderboard(env.D)
	}
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	mname := msg.MatchName
	if mname == "" {
		mname = "Arena"
	}
	if len(mname) > maxMatchNameLen {
		mname = mname[:maxMatchNameLen]
	}
	bots := msg.Bots
	if bots < 0 {
		bots = 0
	}
	if bots > maxPlayersPerMatch-2 {
		bots = maxPlayersPerMatch - 2
	}

	sess := c.hub.sessions.CreateSession(mname, bots)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "too many active matches"}})
		return
	}

	c.hub.sessions.MarkActive(sess.ID)
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"mid": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" {
		name = GenerateGuestName()
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	sess := c.hub.sessions.GetSession(msg.MatchID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "match not found"}})
		return
	}

	player := sess.Match.AddPlayer(name)
	if player == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "match full"}})
		return
	}
	c.hub.sessions.MarkActive(sess.ID)
	c.playerID = player.ID
	c.matchID = sess.ID

	// Link auth to in-game player
	player.AuthPlayerID = c.authPlayerID

	sess.Match.SetClient(player.ID, c)

	c.SendJSON(Envelope{T: MsgJoined, Data: map[string]string{"mid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{ID: player.ID, Team: player.Team, Ship: player.ShipType}})
}

// handleBinaryInput decodes a compact 6-byte binary input message.
// Axes are int16 scaled by 1000; flags bit0 = fire, bit1 = ability.
func (c *Client) handleBinaryInput(msg []byte) {
	if c.matchID == "" || c.playerID == "" {
		return
	}
	turn := float64(int16(uint16(msg[1])<<8|uint16(msg[2]))) / 1000.0
	thrust := float64(int16(uint16(msg[3])<<8|uint16(msg[4]))) / 1000.0
	flags := msg[5]

	input := InputState{
		Turn:    turn,
		Thrust:  thrust,
		Fire:    flags&0x01 != 0,
		Ability: flags&0x02 != 0,
	}
	sess := c.hub.sessions.GetSession(c.matchID)
	if sess == nil {
		return
	}
	sess.Match.HandleInput(c.playerID, input)
}

func (c *Client) handleInput(data json.RawMessage) {
	if c.matchID == "" || c.playerID == "" {
		return
	}
	var input InputState
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(c.matchID)
	if sess == nil {
		return
	}
	sess.Match.HandleInput(c.playerID, input)
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.MatchID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{MatchID: msg.MatchID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		MatchID: msg.MatchID,
		Exists:  true,
		Name:    sess.Name,
		Players: sess.Match.PlayerCount(),
	}})
}

func (c *Client) handleLeave() {
	if c.matchID != "" {
		if c.isController {
			sess := c.hub.sessions.GetSession(c.matchID)
			if sess != nil {
				sess.Match.RemoveController(c.playerID)
			}
		} else {
			c.hub.sessions.RemovePlayer(c.matchID, c.playerID)
		}
		c.matchID = ""
		c.playerID = ""
		c.isController = false
	}
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.MatchID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "match not found"}})
		return
	}
	if !sess.Match.HasPlayer(msg.PlayerID) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "player not found"}})
		return
	}

	c.matchID = msg.MatchID
	c.playerID = msg.PlayerID
	c.isController = true

	sess.Match.SetController(msg.PlayerID, c)
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"pid": msg.PlayerID}})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.hub.SetOnline(id, c)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username: c.authUsername,
		Kills:    stats.Kills,
		Deaths:   stats.Deaths,
		Captures: stats.Captures,
		Matches:  stats.Matches,
		Wins:     stats.Wins,
	}})
}

func (c *Client) handleLeaderboard(data json.RawMessage) {
	if c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "leaderboard unavailable"}})
		return
	}
	var msg LeaderboardMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	limit := msg.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	entries, err := c.hub.db.GetLeaderboard(msg.By, limit)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "leaderboard unavailable"}})
		return
	}
	c.SendJSON(Envelope{T: MsgLeaderboardData, Data: entries})
}
