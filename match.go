package main

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	TickRate       = 60 // simulation ticks per second
	BroadcastRate  = 20 // snapshot broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxProjectilesPerMatch = 500
	maxPlayersPerMatch     = 16
	DefaultScoreLimit      = 5
	DefaultTimeLimit       = 300.0 // seconds

	ShipBumpDamage  = 8
	ShipBumpImpulse = 10.0
	SpawnRingMin    = 8.0
	SpawnRingMax    = 14.0
)

var botNames = []string{"Vector", "Drift", "Helix", "Quill", "Rook", "Sable", "Tern", "Umbra"}

// Broadcaster is the outbound surface a match needs from a connection
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// MatchResult summarizes a finished match for the persistence layer
type MatchResult struct {
	MatchID    string
	Duration   float64
	WinnerTeam int
	Scores     [2]int
	Players    []PlayerResult
}

// PlayerResult is one player's line in a match result
type PlayerResult struct {
	AuthPlayerID int64
	Name         string
	Team         int
	Kills        int
	Deaths       int
	Captures     int
}

// Match runs one arena: a single-threaded cooperative tick under one mutex.
// All event sources (inbound input, contact callbacks, expiry, disconnects)
// interleave across ticks; nothing blocks or suspends.
type Match struct {
	mu          sync.RWMutex
	ID          string
	world       *World
	physics     PhysicsWorld
	clients     map[string]Broadcaster // playerID -> viewer connection
	controllers map[string]Broadcaster // playerID -> remote controller
	bots        map[string]*BotController
	botTarget   int
	tick        uint64
	running     bool
	finished    bool
	stop        chan struct{}
	nextShip    int
	startedAt   time.Time
	feed        *EventFeed
	scoreLimit  int
	timeLimit   float64
	onEnd       func(MatchResult)
}

// NewMatch wires a match over a fresh world and physics collaborator
func NewMatch(id string, feed *EventFeed, botTarget int) *Match {
	physics := NewLocalPhysics()
	m := &Match{
		ID:          id,
		physics:     physics,
		world:       NewWorld(physics, DefaultArena(), feed, id),
		clients:     make(map[string]Broadcaster),
		controllers: make(map[string]Broadcaster),
		bots:        make(map[string]*BotController),
		botTarget:   botTarget,
		stop:        make(chan struct{}),
		startedAt:   time.Now(),
		feed:        feed,
		scoreLimit:  DefaultScoreLimit,
		timeLimit:   DefaultTimeLimit,
	}
	physics.OnContact(m.onContact)
	return m
}

// SetResultSink registers the callback invoked once when the match ends
func (m *Match) SetResultSink(fn func(MatchResult)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = fn
}

// Run drives the tick loop until Stop
func (m *Match) Run() {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.update()
		case <-m.stop:
			return
		}
	}
}

// Stop terminates the tick loop
func (m *Match) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.running = false
		close(m.stop)
	}
}

// AddPlayer joins a human onto the smaller team. Returns nil when full.
func (m *Match) AddPlayer(name string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addPlayerLocked(name, false)
}

// AddBot joins an AI-driven slot; it balances teams like any other join
func (m *Match) AddBot() *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addBotLocked()
}

func (m *Match) addPlayerLocked(name string, bot bool) *Player {
	if len(m.world.players) >= maxPlayersPerMatch {
		return nil
	}
	id := GenerateID(4)
	team := m.world.AssignTeam()
	ship := m.nextShip % 4
	m.nextShip++
	p := NewPlayer(id, name, team, ship)
	if bot {
		p.bot = NewBotController(id)
		m.bots[id] = p.bot
	}
	m.world.AddPlayer(p, m.spawnPosition(team))
	return p
}

func (m *Match) addBotLocked() *Player {
	name := botNames[int(randFloat()*float64(len(botNames)))%len(botNames)]
	return m.addPlayerLocked(fmt.Sprintf("%s-%s", name, GenerateID(1)), true)
}

// RemovePlayer is the disconnect path: objective resources release and the
// player's records disappear before the next tick runs
func (m *Match) RemovePlayer(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world.RemovePlayer(id)
	delete(m.clients, id)
	delete(m.controllers, id)
	delete(m.bots, id)
}

// HasPlayer reports whether the id is a registered slot
func (m *Match) HasPlayer(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.world.players[id]
	return ok
}

// SetClient associates a viewer connection with a player
func (m *Match) SetClient(playerID string, client Broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[playerID] = client
}

// SetController attaches a remote controller to a player slot
func (m *Match) SetController(playerID string, client Broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.controllers[playerID] = client
	if c, ok := m.clients[playerID]; ok {
		c.SendJSON(Envelope{T: MsgCtrlOn, Data: map[string]string{"pid": playerID}})
	}
}

// RemoveController detaches a remote controller without removing the player
func (m *Match) RemoveController(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, playerID)
	if c, ok := m.clients[playerID]; ok {
		c.SendJSON(Envelope{T: MsgCtrlOff, Data: map[string]string{"pid": playerID}})
	}
}

// HandleInput buffers a validated controller snapshot. Triggers are latched:
// a press stays true until the tick consumes it.
func (m *Match) HandleInput(playerID string, in InputState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.world.players[playerID]
	if !ok {
		return
	}
	p.Input.Turn = Clamp(in.Turn, -1, 1)
	p.Input.Thrust = Clamp(in.Thrust, -1, 1)
	p.Input.Fire = p.Input.Fire || in.Fire
	p.Input.Ability = p.Input.Ability || in.Ability
}

// PlayerCount returns the number of registered slots (bots included)
func (m *Match) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.world.players)
}

// HumanCount returns the number of non-bot slots
func (m *Match) HumanCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, p := range m.world.players {
		if !p.IsBot() {
			n++
		}
	}
	return n
}

// World exposes the read-only state surface for tests and HTTP accessors
func (m *Match) World() *World {
	return m.world
}

// update runs one tick: input -> velocity -> physics -> contacts -> expiry,
// in that order, so every callback observes settled positions
func (m *Match) update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}

	dt := 1.0 / float64(TickRate)
	m.tick++
	m.world.Advance(dt)
	m.topUpBots()

	// Consume buffered input and write velocities
	for _, p := range m.world.players {
		if !p.Alive() {
			p.RespawnT -= dt
			if p.RespawnT <= 0 {
				m.respawn(p)
			}
			continue
		}
		if p.IsBot() {
			if ctx, ok := m.world.BuildContext(p.ID); ok {
				p.Input = p.bot.Decide(ctx, dt)
			}
		}
		body, ok := m.world.Body(p.ID)
		if !ok {
			continue // transform missing: retried next tick
		}
		IntegrateMovement(p, body, dt)

		if p.FireEdge() && len(m.world.projectiles) < maxProjectilesPerMatch {
			m.world.SpawnBolt(p)
		}
		if p.Input.Ability {
			if !p.Slot.Empty() {
				m.world.ActivateAbility(p, p.Slot.AbilityID)
			}
		}
		// Triggers consumed
		p.Input.Fire = false
		p.Input.Ability = false
	}

	// Physics integrates positions; contact callbacks fire at the end of
	// the step and never re-enter it
	m.physics.Step(dt)

	m.checkJumpPads()
	m.world.CheckObjectiveContacts()
	m.world.CheckPickupContacts()
	m.world.AdvanceProjectiles(dt)

	// Edge-detected deaths, once per zero crossing
	for _, p := range m.world.players {
		if p.CheckDeath() {
			m.handleDeath(p)
		}
	}

	// Lazy ability expiry: activated slots whose remaining time hit zero
	// are cleared here, running each OnDeactivate exactly once
	for _, p := range m.world.players {
		if p.Slot.Activated && !m.world.IsAbilityActive(p) {
			m.world.ClearAbility(p)
		}
	}

	m.world.UpdatePickups(dt)
	m.world.RebuildPosCache()

	if m.tick%BroadcastEvery == 0 {
		m.broadcastSnapshot()
	}
	m.checkMatchEnd()
}

// topUpBots keeps the configured bot count while humans are scarce
func (m *Match) topUpBots() {
	for len(m.bots) < m.botTarget && len(m.world.players) < maxPlayersPerMatch {
		if m.addBotLocked() == nil {
			return
		}
	}
}

// onContact handles ship-ship bumps reported by the physics step
func (m *Match) onContact(aID, bID string) {
	a, okA := m.world.players[aID]
	b, okB := m.world.players[bID]
	if !okA || !okB || !a.Alive() || !b.Alive() {
		return
	}
	bodyA, okA := m.world.Body(aID)
	bodyB, okB := m.world.Body(bID)
	if !okA || !okB {
		return
	}
	a.ReduceHealth(ShipBumpDamage)
	b.ReduceHealth(ShipBumpDamage)
	a.LastHitBy = bID
	b.LastHitBy = aID
	bodyA.ApplyImpulse(separationImpulse(bodyA.Position(), bodyB.Position(), PlayerHullRadius, PlayerHullRadius, ShipBumpImpulse))
	bodyB.ApplyImpulse(separationImpulse(bodyB.Position(), bodyA.Position(), PlayerHullRadius, PlayerHullRadius, ShipBumpImpulse))
}

// checkJumpPads launches grounded ships crossing a pad
func (m *Match) checkJumpPads() {
	for id, p := range m.world.players {
		if !p.Alive() {
			continue
		}
		body, ok := m.world.Body(id)
		if !ok || !body.Grounded() {
			continue
		}
		pos := body.Position()
		for _, pad := range m.world.arena.JumpPads {
			if HorizDist(pos, pad.Pos) > pad.Radius {
				continue
			}
			vel := body.Velocity()
			vel.Y = pad.LaunchSpeed
			body.SetVelocity(vel)
			break
		}
	}
}

func (m *Match) handleDeath(p *Player) {
	p.Deaths++
	p.RespawnT = RespawnTime
	var pos Vec3
	if body, ok := m.world.Body(p.ID); ok {
		pos = body.Position()
		body.SetVelocity(Vec3{})
	}
	m.world.DropFlag(p, pos)
	m.world.publish(EvDeath, p, pos, "")

	killMsg := Envelope{T: MsgKill, Data: KillMsg{VictimID: p.ID, VictimName: p.Name}}
	if killer, ok := m.world.players[p.LastHitBy]; ok && killer.ID != p.ID {
		killer.Kills++
		killMsg.Data = KillMsg{
			KillerID: killer.ID, KillerName: killer.Name,
			VictimID: p.ID, VictimName: p.Name,
		}
	}
	m.broadcastMsg(killMsg)
	if client, ok := m.clients[p.ID]; ok {
		client.SendJSON(Envelope{T: MsgDeath, Data: DeathMsg{KillerID: p.LastHitBy}})
	}
}

func (m *Match) respawn(p *Player) {
	p.Respawn()
	if body, ok := m.world.Body(p.ID); ok {
		body.SetPosition(m.spawnPosition(p.Team))
		body.SetVelocity(Vec3{})
		body.SetAngularVelocity(0)
	}
	m.world.publish(EvRespawn, p, Vec3{}, "")
}

// spawnPosition scatters spawns in a ring around the team base
func (m *Match) spawnPosition(team int) Vec3 {
	base := m.world.bases[team%2].Pos
	r := randRange(SpawnRingMin, SpawnRingMax)
	theta := randRange(0, 2*math.Pi)
	pos := Vec3{X: base.X + r*math.Cos(theta), Z: base.Z + r*math.Sin(theta)}
	pos.X = Clamp(pos.X, -ArenaExtent+PlayerHullRadius, ArenaExtent-PlayerHullRadius)
	pos.Z = Clamp(pos.Z, -ArenaExtent+PlayerHullRadius, ArenaExtent-PlayerHullRadius)
	return pos
}

// checkMatchEnd finishes the match at the score limit or time limit
func (m *Match) checkMatchEnd() {
	winner := -1
	if m.world.scores[0] >= m.scoreLimit {
		winner = 0
	} else if m.world.scores[1] >= m.scoreLimit {
		winner = 1
	} else if m.world.now >= m.timeLimit {
		if m.world.scores[0] >= m.world.scores[1] {
			winner = 0
		} else {
			winner = 1
		}
	}
	if winner < 0 {
		return
	}
	m.finished = true

	result := MatchResult{
		MatchID:    m.ID,
		Duration:   m.world.now,
		WinnerTeam: winner,
		Scores:     m.world.scores,
	}
	for _, p := range m.world.players {
		result.Players = append(result.Players, PlayerResult{
			AuthPlayerID: p.AuthPlayerID,
			Name:         p.Name,
			Team:         p.Team,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Captures:     p.Captures,
		})
	}
	m.broadcastMsg(Envelope{T: MsgResult, Data: ResultMsg{
		WinnerTeam: winner,
		Scores:     m.world.scores,
	}})
	if m.onEnd != nil {
		m.onEnd(result)
	}
}

// broadcastSnapshot sends the msgpack world snapshot to every connection
func (m *Match) broadcastSnapshot() {
	snap := m.buildSnapshot()
	data, err := snap.Marshal()
	if err != nil {
		return
	}
	for _, client := range m.clients {
		client.SendBinary(data)
	}
	for _, client := range m.controllers {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON envelope to all viewer connections
func (m *Match) broadcastMsg(msg Envelope) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, client := range m.clients {
		if c, ok := client.(*Client); ok {
			c.SendRaw(data)
		} else {
			client.SendJSON(msg)
		}
	}
}

func (m *Match) buildSnapshot() Snapshot {
	w := m.world
	snap := Snapshot{
		Tick:   m.tick,
		Scores: w.scores,
	}
	for id, p := range w.players {
		body, ok := w.Body(id)
		if !ok {
			continue
		}
		pos := body.Position()
		vel := body.Velocity()
		snap.Players = append(snap.Players, SnapPlayer{
			ID: p.ID, Name: p.Name, Team: p.Team, Color: p.Color, Ship: p.ShipType,
			X: round1(pos.X), Y: round1(pos.Y), Z: round1(pos.Z),
			Yaw: round1(body.Yaw()),
			VX:  round1(vel.X), VY: round1(vel.Y), VZ: round1(vel.Z),
			HP:    p.Health,
			Alive: p.Alive(),
			Ability: p.Slot.AbilityID,
			AbilityOn: w.IsAbilityActive(p),
		})
	}
	for _, proj := range w.projectiles {
		snap.Projectiles = append(snap.Projectiles, SnapProjectile{
			ID: proj.ID, Kind: int(proj.Kind), Owner: proj.OwnerID,
			X: round1(proj.Pos.X), Y: round1(proj.Pos.Y), Z: round1(proj.Pos.Z),
		})
	}
	for _, pk := range w.pickups {
		if pk.Alive {
			snap.Pickups = append(snap.Pickups, SnapPickup{
				ID: pk.ID, Ability: pk.AbilityID,
				X: round1(pk.Pos.X), Y: round1(pk.Pos.Y), Z: round1(pk.Pos.Z),
			})
		}
	}
	for i := range w.flags {
		f := w.flags[i]
		snap.Flags[i] = SnapFlag{
			Team: f.Team, Status: int(f.Status), Carrier: f.CarrierID,
			X: round1(f.Pos.X), Y: round1(f.Pos.Y), Z: round1(f.Pos.Z),
		}
		b := w.bases[i]
		snap.Bases[i] = SnapBase{Team: b.Team, X: round1(b.Pos.X), Z: round1(b.Pos.Z)}
	}
	for _, d := range w.decals {
		snap.Decals = append(snap.Decals, SnapDecal{
			X: round1(d.Pos.X), Y: round1(d.Pos.Y), Z: round1(d.Pos.Z),
			NX: round1(d.Normal.X), NY: round1(d.Normal.Y), NZ: round1(d.Normal.Z),
		})
	}
	return snap
}
