package main

import (
	"math"
	"testing"
)

func newObjectiveWorld(t *testing.T) *World {
	t.Helper()
	physics := NewLocalPhysics()
	return NewWorld(physics, DefaultArena(), NewEventFeed(64), "test")
}

func addTeamPlayer(w *World, id string, team int, pos Vec3) *Player {
	p := NewPlayer(id, id, team, 0)
	w.AddPlayer(p, pos)
	return p
}

func TestAssignTeamBalances(t *testing.T) {
	w := newObjectiveWorld(t)

	if got := w.AssignTeam(); got != 0 {
		t.Errorf("empty world should assign team 0, got %d", got)
	}
	addTeamPlayer(w, "a", 0, Vec3{})
	if got := w.AssignTeam(); got != 1 {
		t.Errorf("second join should balance to team 1, got %d", got)
	}
	addTeamPlayer(w, "b", 1, Vec3{})
	if got := w.AssignTeam(); got != 0 {
		t.Errorf("tie should go to team 0, got %d", got)
	}
}

func TestRandomizeBasesMirroredAndBounded(t *testing.T) {
	w := newObjectiveWorld(t)
	for i := 0; i < 50; i++ {
		w.RandomizeBases()
		a, b := w.bases[0].Pos, w.bases[1].Pos

		if a.Add(b).Len() > 1e-9 {
			t.Fatalf("bases not mirrored: %v and %v", a, b)
		}
		lim := ArenaExtent - BaseEdgeMargin
		if math.Abs(a.X) > lim || math.Abs(a.Z) > lim {
			t.Fatalf("base outside boundary margin: %v", a)
		}
		if r := a.Len(); r < BaseRingMin-1e-9 {
			t.Fatalf("base inside ring minimum: r=%v", r)
		}
	}
}

func TestRandomizeBasesMovesAtBaseFlags(t *testing.T) {
	w := newObjectiveWorld(t)
	w.RandomizeBases()
	for i := range w.flags {
		if w.flags[i].Status != FlagAtBase {
			continue
		}
		if w.flags[i].Pos != w.bases[i].Pos {
			t.Errorf("team %d flag did not follow its base", i)
		}
	}
}

func TestTouchEnemyFlagPicksUp(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})

	if !w.TouchFlag(p, 1) {
		t.Fatal("touching enemy flag at base should pick it up")
	}
	if w.flags[1].Status != FlagCarried || w.flags[1].CarrierID != "a" {
		t.Errorf("flag state = %v carrier %q", w.flags[1].Status, w.flags[1].CarrierID)
	}
}

func TestTouchCarriedFlagRejected(t *testing.T) {
	w := newObjectiveWorld(t)
	a := addTeamPlayer(w, "a", 0, Vec3{})
	b := addTeamPlayer(w, "b", 0, Vec3{})

	w.TouchFlag(a, 1)
	if w.TouchFlag(b, 1) {
		t.Error("a carried flag must reject further touches")
	}
	if w.flags[1].CarrierID != "a" {
		t.Errorf("carrier changed to %q", w.flags[1].CarrierID)
	}
}

func TestTouchOwnDroppedFlagReturns(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})

	w.flags[0].Status = FlagDropped
	w.flags[0].Pos = Vec3{X: 30, Z: 30}

	if !w.TouchFlag(p, 0) {
		t.Fatal("own dropped flag should return")
	}
	if w.flags[0].Status != FlagAtBase {
		t.Errorf("flag status = %v, want atBase", w.flags[0].Status)
	}
	if w.flags[0].Pos != w.bases[0].Pos {
		t.Error("returned flag should sit at its base")
	}
}

func TestTouchOwnFlagAtBaseNoOp(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})
	if w.TouchFlag(p, 0) {
		t.Error("own flag at base should be a no-op")
	}
}

func TestEnemyPicksUpDroppedFlag(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})

	w.flags[1].Status = FlagDropped
	w.flags[1].Pos = Vec3{X: 10}

	if !w.TouchFlag(p, 1) {
		t.Fatal("enemy dropped flag should be picked up")
	}
	if w.flags[1].Status != FlagCarried || w.flags[1].CarrierID != "a" {
		t.Error("dropped enemy flag should now be carried")
	}
}

func TestCaptureScoresAndRelocatesBases(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})

	w.TouchFlag(p, 1)

	w.EnterBase(p)

	if w.scores[0] != 1 {
		t.Errorf("score = %d, want 1", w.scores[0])
	}
	if p.Captures != 1 {
		t.Errorf("player captures = %d, want 1", p.Captures)
	}
	if w.flags[1].Status != FlagAtBase {
		t.Errorf("captured flag status = %v, want atBase", w.flags[1].Status)
	}
	if w.flags[1].Pos != w.bases[1].Pos {
		t.Error("captured flag should be home at the (new) enemy base")
	}
	// Bases are redrawn as a pair after every capture; the draw can land
	// anywhere on the ring, so check the mirror invariant rather than
	// movement
	if w.bases[0].Pos.Add(w.bases[1].Pos).Len() > 1e-9 {
		t.Errorf("bases not mirrored after capture: %v %v", w.bases[0].Pos, w.bases[1].Pos)
	}
}

func TestEnterBaseWithoutFlagNoScore(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})
	w.EnterBase(p)
	if w.scores[0] != 0 {
		t.Errorf("score = %d without carrying, want 0", w.scores[0])
	}
}

func TestDropFlagOnDeath(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{})
	w.TouchFlag(p, 1)

	at := Vec3{X: 42, Z: -17}
	w.DropFlag(p, at)

	if w.flags[1].Status != FlagDropped {
		t.Errorf("flag status = %v, want dropped", w.flags[1].Status)
	}
	if w.flags[1].Pos != at {
		t.Errorf("flag dropped at %v, want %v", w.flags[1].Pos, at)
	}
	if w.flags[1].CarrierID != "" {
		t.Error("dropped flag should have no carrier")
	}
}

func TestDisconnectReleasesFlag(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{X: 5, Z: 5})
	w.TouchFlag(p, 1)

	w.RemovePlayer("a")

	if w.flags[1].Status != FlagDropped {
		t.Errorf("flag status after carrier disconnect = %v, want dropped", w.flags[1].Status)
	}
	if _, ok := w.Player("a"); ok {
		t.Error("player should be gone")
	}
	if _, ok := w.Body("a"); ok {
		t.Error("body should be gone")
	}
}

func TestCarriedFlagTracksCarrier(t *testing.T) {
	w := newObjectiveWorld(t)
	p := addTeamPlayer(w, "a", 0, Vec3{X: 5})
	w.TouchFlag(p, 1)

	body, _ := w.Body("a")
	body.SetPosition(Vec3{X: 33, Z: 44})
	w.CheckObjectiveContacts()

	if w.flags[1].Pos != (Vec3{X: 33, Z: 44}) {
		t.Errorf("carried flag at %v, want carrier position", w.flags[1].Pos)
	}
}

func TestObjectiveContactProximity(t *testing.T) {
	w := newObjectiveWorld(t)
	// Park a player right on the enemy flag
	p := addTeamPlayer(w, "a", 0, w.flags[1].Pos)
	_ = p

	w.CheckObjectiveContacts()
	if w.flags[1].Status != FlagCarried {
		t.Error("proximity pass should pick up the enemy flag")
	}

	// Move the carrier onto their own base: capture
	body, _ := w.Body("a")
	body.SetPosition(w.bases[0].Pos)
	w.CheckObjectiveContacts()
	if w.scores[0] != 1 {
		t.Errorf("score = %d after base entry with flag, want 1", w.scores[0])
	}
}
