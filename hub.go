package main

import "sync"

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// connLimits tracks live socket counts so one client can't exhaust the server
type connLimits struct {
	mu    sync.Mutex
	perIP map[string]int
	total int
}

func (cl *connLimits) admit(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.total < maxTotalConns && cl.perIP[ip] < maxConnsPerIP
}

func (cl *connLimits) add(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.perIP[ip]++
	cl.total++
}

func (cl *connLimits) remove(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.perIP[ip]--
	if cl.perIP[ip] <= 0 {
		delete(cl.perIP, ip)
	}
	cl.total--
}

// Hub owns every websocket client and routes attach/detach into the session
// layer. Auth and persistence hang off it so handlers reach them through the
// client's back-pointer.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	limits   connLimits
	sessions *SessionManager
	db       *DB
	auth     *Auth

	onlineMu sync.RWMutex
	online   map[int64]*Client // authenticated pilots currently connected
}

func NewHub(db *DB, feed *EventFeed, rec *Recorder) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		limits:     connLimits{perIP: make(map[string]int)},
		sessions:   NewSessionManager(feed, rec),
		db:         db,
		auth:       NewAuth(db),
		online:     make(map[int64]*Client),
	}
}

func (h *Hub) CanAccept(ip string) bool { return h.limits.admit(ip) }
func (h *Hub) TrackConnect(ip string)   { h.limits.add(ip) }
func (h *Hub) TrackDisconnect(ip string) {
	h.limits.remove(ip)
}

// Run serializes client attach/detach
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.detach(c)
		}
	}
}

// detach tears a client out of the hub, its match, and online tracking
func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if c.authPlayerID != 0 {
		h.SetOffline(c.authPlayerID)
	}
	if c.matchID == "" {
		return
	}
	if c.isController {
		if sess := h.sessions.GetSession(c.matchID); sess != nil {
			sess.Match.RemoveController(c.playerID)
		}
		return
	}
	h.sessions.RemovePlayer(c.matchID, c.playerID)
}

// SetOnline records an authenticated pilot's live connection
func (h *Hub) SetOnline(playerID int64, client *Client) {
	h.onlineMu.Lock()
	h.online[playerID] = client
	h.onlineMu.Unlock()
}

func (h *Hub) SetOffline(playerID int64) {
	h.onlineMu.Lock()
	delete(h.online, playerID)
	h.onlineMu.Unlock()
}

func (h *Hub) IsOnline(playerID int64) bool {
	h.onlineMu.RLock()
	defer h.onlineMu.RUnlock()
	_, ok := h.online[playerID]
	return ok
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) TotalConns() int {
	h.limits.mu.Lock()
	defer h.limits.mu.Unlock()
	return h.limits.total
}
