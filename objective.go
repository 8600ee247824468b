package main

import "math"

// FlagStatus is exactly one of atBase, carried, dropped
type FlagStatus int

const (
	FlagAtBase  FlagStatus = 0
	FlagCarried FlagStatus = 1
	FlagDropped FlagStatus = 2
)

func (s FlagStatus) String() string {
	switch s {
	case FlagCarried:
		return "carried"
	case FlagDropped:
		return "dropped"
	default:
		return "atBase"
	}
}

// Flag is one team's flag. CarrierID is set iff Status is FlagCarried.
type Flag struct {
	Team      int
	Status    FlagStatus
	Pos       Vec3
	CarrierID string
}

// Base is one team's capture/scoring zone
type Base struct {
	Team int
	Pos  Vec3
}

const baseRandomizeAttempts = 8

// AssignTeam picks the team with fewest current members, team 0 on ties,
// so team sizes never differ by more than one after a join
func (w *World) AssignTeam() int {
	if w.TeamCount(1) < w.TeamCount(0) {
		return 1
	}
	return 0
}

// RandomizeBases draws a fresh base pair: one base at a random angle and
// ring radius, the other mirrored through the arena center so the two are
// always mutually opposite. Draws that land outside the boundary margin
// are retried; after that a fixed deterministic pair is used. Flags sitting
// at base follow their base.
func (w *World) RandomizeBases() {
	a, b := Vec3{X: -BaseRingMin}, Vec3{X: BaseRingMin} // deterministic fallback
	for i := 0; i < baseRandomizeAttempts; i++ {
		theta := randRange(0, 2*math.Pi)
		r := randRange(BaseRingMin, BaseRingMax)
		cand := Vec3{X: r * math.Cos(theta), Z: r * math.Sin(theta)}
		if !baseInBounds(cand) {
			continue
		}
		a, b = cand, cand.Scale(-1)
		break
	}
	w.bases[0].Pos = a
	w.bases[1].Pos = b
	for i := range w.flags {
		if w.flags[i].Status == FlagAtBase {
			w.flags[i].Pos = w.bases[i].Pos
		}
	}
}

func baseInBounds(p Vec3) bool {
	lim := ArenaExtent - BaseEdgeMargin
	return p.X >= -lim && p.X <= lim && p.Z >= -lim && p.Z <= lim
}

// TouchFlag applies the canonical contact rule for player p touching the
// given team's flag:
//   - own flag dropped: returns to base
//   - enemy flag at base or dropped: picked up
//   - already carried: rejected, regardless of event arrival order
func (w *World) TouchFlag(p *Player, flagTeam int) bool {
	flag := &w.flags[flagTeam%2]
	if flag.Status == FlagCarried {
		return false
	}
	if flagTeam == p.Team {
		if flag.Status == FlagDropped {
			w.returnFlag(flag)
			return true
		}
		return false // own flag at base: nothing to do
	}
	flag.Status = FlagCarried
	flag.CarrierID = p.ID
	w.publish(EvFlag, p, flag.Pos, `{"flag":"taken"}`)
	return true
}

// EnterBase handles player p reaching their own base ring: capture the
// enemy flag they carry, and return their own flag if it lies dropped
func (w *World) EnterBase(p *Player) {
	enemy := &w.flags[(p.Team+1)%2]
	if enemy.Status == FlagCarried && enemy.CarrierID == p.ID {
		w.scoreCapture(p)
	}
	own := &w.flags[p.Team%2]
	if own.Status == FlagDropped {
		w.returnFlag(own)
	}
}

// scoreCapture scores a capture for p's team, sends the enemy flag home,
// and relocates both bases as a pair
func (w *World) scoreCapture(p *Player) {
	enemy := &w.flags[(p.Team+1)%2]
	enemy.Status = FlagAtBase
	enemy.CarrierID = ""
	w.scores[p.Team%2]++
	p.Captures++
	w.RandomizeBases() // also moves the returned flag to the new base
	w.publish(EvScore, p, w.bases[p.Team%2].Pos, "")
}

// DropFlag forces any flag carried by p into the dropped state at pos.
// Used for carrier death and disconnect.
func (w *World) DropFlag(p *Player, pos Vec3) {
	for i := range w.flags {
		flag := &w.flags[i]
		if flag.Status == FlagCarried && flag.CarrierID == p.ID {
			flag.Status = FlagDropped
			flag.CarrierID = ""
			flag.Pos = pos
			w.publish(EvFlag, p, pos, `{"flag":"dropped"}`)
		}
	}
}

// ReleaseFlags is the disconnect path: a carried flag never outlives its
// carrier's registration
func (w *World) ReleaseFlags(p *Player, pos Vec3) {
	w.DropFlag(p, pos)
}

func (w *World) returnFlag(flag *Flag) {
	flag.Status = FlagAtBase
	flag.CarrierID = ""
	flag.Pos = w.bases[flag.Team%2].Pos
	w.publish(EvFlag, nil, flag.Pos, `{"flag":"returned"}`)
}

// CheckObjectiveContacts runs the per-tick proximity checks: flag touches
// and base entries. Transitions are idempotent, so ordering across players
// within one tick does not matter.
func (w *World) CheckObjectiveContacts() {
	for id, p := range w.players {
		if !p.Alive() {
			continue
		}
		body, ok := w.physics.Body(id)
		if !ok {
			continue
		}
		pos := body.Position()
		for t := range w.flags {
			flag := &w.flags[t]
			if flag.Status == FlagCarried {
				continue
			}
			if HorizDist(pos, flag.Pos) <= FlagTouchRange && math.Abs(pos.Y-flag.Pos.Y) <= FlagTouchHeight {
				w.TouchFlag(p, t)
			}
		}
		if HorizDist(pos, w.bases[p.Team%2].Pos) <= BaseRadius {
			w.EnterBase(p)
		}
	}
	// Carried flags ride along with their carrier
	for i := range w.flags {
		flag := &w.flags[i]
		if flag.Status != FlagCarried {
			continue
		}
		if body, ok := w.physics.Body(flag.CarrierID); ok {
			flag.Pos = body.Position()
		}
	}
}
