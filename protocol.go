package main

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgJoin        = "join"
	MsgLeave       = "leave"
	MsgInput       = "input"
	MsgCreate      = "create"   // create match
	MsgList        = "list"     // list matches
	MsgCheck       = "check"    // check if match exists
	MsgControl     = "control"  // remote controller attach
	MsgRegister    = "register" // pilot account signup
	MsgLogin       = "login"
	MsgAuth        = "auth" // token reattach
	MsgProfile     = "profile"
	MsgLeaderboard = "leaderboard"
)

// Server -> Client message types
const (
	MsgWelcome         = "welcome"
	MsgDeath           = "death"
	MsgKill            = "kill"
	MsgResult          = "result"
	MsgSessions        = "sessions"
	MsgJoined          = "joined"
	MsgCreated         = "created"
	MsgError           = "error"
	MsgChecked         = "checked"
	MsgControlOK       = "control_ok"
	MsgCtrlOn          = "ctrl_on"  // notify viewer: controller attached
	MsgCtrlOff         = "ctrl_off" // notify viewer: controller detached
	MsgAuthOK          = "auth_ok"
	MsgProfileData     = "profile_data"
	MsgLeaderboardData = "leaderboard_data"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids
// double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputState is the validated per-controller snapshot the gateway delivers
// to the match. Triggers arrive latched: a press stays true until the
// simulation consumes it.
type InputState struct {
	Turn    float64 `json:"t"`  // [-1,1]
	Thrust  float64 `json:"th"` // [-1,1]
	Fire    bool    `json:"f"`
	Ability bool    `json:"ab"`
}

// JoinMsg is sent when a player wants to join a match
type JoinMsg struct {
	Name    string `json:"name"`
	MatchID string `json:"mid"`
}

// CreateMsg is sent when a player wants to create a match
type CreateMsg struct {
	Name      string `json:"name"`
	MatchName string `json:"mname"`
	Bots      int    `json:"bots"`
}

// ControlMsg is sent by a remote controller to attach to a player slot
type ControlMsg struct {
	MatchID  string `json:"mid"`
	PlayerID string `json:"pid"`
	Token    string `json:"tok,omitempty"` // optional reattach token
}

// CheckMsg asks whether a match exists
type CheckMsg struct {
	MatchID string `json:"mid"`
}

// CheckedMsg is the response to a match check
type CheckedMsg struct {
	MatchID string `json:"mid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID   string `json:"id"`
	Team int    `json:"team"`
	Ship int    `json:"s"`
}

// DeathMsg notifies a player they died
type DeathMsg struct {
	KillerID string `json:"kid"`
}

// KillMsg is broadcast to the match on a death
type KillMsg struct {
	KillerID   string `json:"kid,omitempty"`
	KillerName string `json:"kn,omitempty"`
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
}

// ResultMsg closes out a match
type ResultMsg struct {
	WinnerTeam int    `json:"w"`
	Scores     [2]int `json:"sc"`
}

// SessionInfo is one row of the match list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg / LoginMsg / AuthMsg drive pilot accounts
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms register/login/reattach
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// LeaderboardMsg asks for the top pilots by a stat column
type LeaderboardMsg struct {
	By    string `json:"by,omitempty"` // kills | wins | captures | kd
	Limit int    `json:"n,omitempty"`
}

// ProfileDataMsg returns persistent pilot stats
type ProfileDataMsg struct {
	Username string `json:"u"`
	Kills    int    `json:"k"`
	Deaths   int    `json:"d"`
	Captures int    `json:"c"`
	Matches  int    `json:"m"`
	Wins     int    `json:"w"`
}

// --- Binary snapshot feed (msgpack) ---

// SnapPlayer is one ship in the world snapshot
type SnapPlayer struct {
	ID        string  `msgpack:"id"`
	Name      string  `msgpack:"n"`
	Team      int     `msgpack:"tm"`
	Color     string  `msgpack:"c"`
	Ship      int     `msgpack:"s"`
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Z         float64 `msgpack:"z"`
	Yaw       float64 `msgpack:"r"`
	VX        float64 `msgpack:"vx"`
	VY        float64 `msgpack:"vy"`
	VZ        float64 `msgpack:"vz"`
	HP        int     `msgpack:"hp"`
	Alive     bool    `msgpack:"a"`
	Ability   string  `msgpack:"ab,omitempty"`
	AbilityOn bool    `msgpack:"abo,omitempty"`
}

// SnapProjectile is one projectile in the world snapshot
type SnapProjectile struct {
	ID    string  `msgpack:"id"`
	Kind  int     `msgpack:"k"`
	Owner string  `msgpack:"o"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	Z     float64 `msgpack:"z"`
}

// SnapPickup is one live pickup
type SnapPickup struct {
	ID      string  `msgpack:"id"`
	Ability string  `msgpack:"ab"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
}

// SnapFlag mirrors a flag's state
type SnapFlag struct {
	Team    int     `msgpack:"tm"`
	Status  int     `msgpack:"st"`
	Carrier string  `msgpack:"cr,omitempty"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
}

// SnapBase mirrors a base position
type SnapBase struct {
	Team int     `msgpack:"tm"`
	X    float64 `msgpack:"x"`
	Z    float64 `msgpack:"z"`
}

// SnapDecal is one impact decal
type SnapDecal struct {
	X  float64 `msgpack:"x"`
	Y  float64 `msgpack:"y"`
	Z  float64 `msgpack:"z"`
	NX float64 `msgpack:"nx"`
	NY float64 `msgpack:"ny"`
	NZ float64 `msgpack:"nz"`
}

// Snapshot is the full world state broadcast to viewers at BroadcastRate
type Snapshot struct {
	Tick        uint64           `msgpack:"tick"`
	Players     []SnapPlayer     `msgpack:"p"`
	Projectiles []SnapProjectile `msgpack:"pr"`
	Pickups     []SnapPickup     `msgpack:"pk"`
	Flags       [2]SnapFlag      `msgpack:"fl"`
	Bases       [2]SnapBase      `msgpack:"b"`
	Scores      [2]int           `msgpack:"sc"`
	Decals      []SnapDecal      `msgpack:"dc,omitempty"`
}

// Marshal encodes the snapshot for the binary feed
func (s Snapshot) Marshal() ([]byte, error) {
	return msgpack.Marshal(s)
}

// UnmarshalSnapshot decodes a binary snapshot (used by tests and tools)
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := msgpack.Unmarshal(data, &s)
	return s, err
}
