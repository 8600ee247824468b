package main

import "sync/atomic"

// PosRot is the derived per-controller transform the camera-follow and HUD
// consumers read
type PosRot struct {
	Pos Vec3
	Yaw float64
}

// World is the one authoritative registry of simulation state, owned by a
// Match and passed by reference to every subsystem. No process-wide
// singletons: everything a subsystem needs to read or mutate hangs off here.
type World struct {
	now     float64 // match-local clock, seconds
	physics PhysicsWorld
	arena   ArenaLayout
	feed    *EventFeed
	matchID string

	players     map[string]*Player
	projectiles map[string]*Projectile
	pickups     map[string]*Pickup
	decals      []Decal

	flags  [2]Flag
	bases  [2]Base
	scores [2]int

	// Render cache, replaced wholesale each tick so readers never observe
	// a torn map
	posCache atomic.Value // map[string]PosRot
}

// NewWorld builds a world over the given physics collaborator and arena
func NewWorld(physics PhysicsWorld, arena ArenaLayout, feed *EventFeed, matchID string) *World {
	w := &World{
		physics:     physics,
		arena:       arena,
		feed:        feed,
		matchID:     matchID,
		players:     make(map[string]*Player),
		projectiles: make(map[string]*Projectile),
		pickups:     make(map[string]*Pickup),
	}
	w.posCache.Store(map[string]PosRot{})
	for i := 0; i < 2; i++ {
		w.bases[i] = Base{Team: i}
		w.flags[i] = Flag{Team: i, Status: FlagAtBase}
	}
	w.RandomizeBases()
	for _, spot := range arena.PickupSpots {
		pk := NewPickup(spot)
		w.pickups[pk.ID] = pk
	}
	return w
}

// Now returns the match-local clock in seconds
func (w *World) Now() float64 {
	return w.now
}

// Advance moves the match-local clock forward
func (w *World) Advance(dt float64) {
	w.now += dt
}

// Player returns a registered player by id
func (w *World) Player(id string) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Body returns the physics body backing a player's ship
func (w *World) Body(id string) (PhysicsBody, bool) {
	return w.physics.Body(id)
}

// AddPlayer registers a player slot and its physics body at pos
func (w *World) AddPlayer(p *Player, pos Vec3) {
	w.players[p.ID] = p
	w.physics.AddBody(p.ID, pos, PlayerHullRadius)
}

// RemovePlayer tears a player down synchronously: objective resources are
// released and the health/ability/input records go away before the next
// tick, so no callback observes a half-removed player.
func (w *World) RemovePlayer(id string) {
	p, ok := w.players[id]
	if !ok {
		return
	}
	var last Vec3
	if body, ok := w.physics.Body(id); ok {
		last = body.Position()
	}
	w.ReleaseFlags(p, last)
	w.ClearAbility(p)
	delete(w.players, id)
	w.physics.RemoveBody(id)
}

// AddDecal appends an impact decal, evicting the oldest past MaxDecals
func (w *World) AddDecal(pos, normal Vec3) {
	d := Decal{ID: GenerateID(3), Pos: pos, Normal: normal}
	w.decals = append(w.decals, d)
	if len(w.decals) > MaxDecals {
		w.decals = w.decals[len(w.decals)-MaxDecals:]
	}
}

// Scores returns both team scores
func (w *World) Scores() [2]int {
	return w.scores
}

// FlagFor returns the flag owned by the given team
func (w *World) FlagFor(team int) Flag {
	return w.flags[team%2]
}

// BaseFor returns the base owned by the given team
func (w *World) BaseFor(team int) Base {
	return w.bases[team%2]
}

// TeamCount returns the number of registered players on a team
func (w *World) TeamCount(team int) int {
	n := 0
	for _, p := range w.players {
		if p.Team == team {
			n++
		}
	}
	return n
}

// PosCache returns the latest derived transform map. Safe to read from any
// goroutine; the map is never mutated after being stored.
func (w *World) PosCache() map[string]PosRot {
	return w.posCache.Load().(map[string]PosRot)
}

// RebuildPosCache swaps in a fresh transform map for render consumers
func (w *World) RebuildPosCache() {
	next := make(map[string]PosRot, len(w.players))
	for id := range w.players {
		if body, ok := w.physics.Body(id); ok {
			next[id] = PosRot{Pos: body.Position(), Yaw: body.Yaw()}
		}
	}
	w.posCache.Store(next)
}

func (w *World) publish(kind string, p *Player, pos Vec3, data string) {
	ev := Event{Kind: kind, MatchID: w.matchID, Pos: pos, Data: data}
	if p != nil {
		ev.PlayerID = p.ID
		ev.Team = p.Team
	}
	w.feed.Publish(ev)
}
