package main

import "testing"

func TestPickupGrantsAbility(t *testing.T) {
	physics := NewLocalPhysics()
	arena := ArenaLayout{PickupSpots: []PickupSpot{{Pos: Vec3{X: 10, Y: 1}, AbilityID: AbilitySurge}}}
	w := NewWorld(physics, arena, NewEventFeed(64), "test")
	p := addTeamPlayer(w, "a", 0, Vec3{X: 10, Y: 1})

	w.CheckPickupContacts()

	if p.Slot.AbilityID != AbilitySurge {
		t.Errorf("slot = %q, want %q", p.Slot.AbilityID, AbilitySurge)
	}
	for _, pk := range w.pickups {
		if pk.Alive {
			t.Error("taken pickup should be despawned")
		}
	}
}

func TestPickupRejectedWhileHolding(t *testing.T) {
	physics := NewLocalPhysics()
	arena := ArenaLayout{PickupSpots: []PickupSpot{{Pos: Vec3{X: 10, Y: 1}, AbilityID: AbilityRepair}}}
	w := NewWorld(physics, arena, NewEventFeed(64), "test")
	p := addTeamPlayer(w, "a", 0, Vec3{X: 10, Y: 1})
	w.CollectAbility(p, AbilitySurge)

	w.CheckPickupContacts()

	if p.Slot.AbilityID != AbilitySurge {
		t.Error("held ability should be preserved")
	}
	for _, pk := range w.pickups {
		if !pk.Alive {
			t.Error("pickup should stay in place when the toucher is holding")
		}
	}
}

func TestPickupRespawnsInPlace(t *testing.T) {
	physics := NewLocalPhysics()
	arena := ArenaLayout{PickupSpots: []PickupSpot{{Pos: Vec3{X: 10, Y: 1}, AbilityID: AbilitySurge}}}
	w := NewWorld(physics, arena, NewEventFeed(64), "test")
	addTeamPlayer(w, "a", 0, Vec3{X: 10, Y: 1})

	w.CheckPickupContacts()
	w.UpdatePickups(PickupRespawnDelay + 0.1)

	for _, pk := range w.pickups {
		if !pk.Alive {
			t.Error("pickup should respawn after the delay")
		}
		if pk.Pos != (Vec3{X: 10, Y: 1}) {
			t.Errorf("pickup moved to %v, want its spawn spot", pk.Pos)
		}
	}
}

func TestDeadPlayerCannotCollect(t *testing.T) {
	physics := NewLocalPhysics()
	arena := ArenaLayout{PickupSpots: []PickupSpot{{Pos: Vec3{X: 10, Y: 1}, AbilityID: AbilitySurge}}}
	w := NewWorld(physics, arena, NewEventFeed(64), "test")
	p := addTeamPlayer(w, "a", 0, Vec3{X: 10, Y: 1})
	p.ReduceHealth(PlayerMaxHealth)
	p.CheckDeath()

	w.CheckPickupContacts()

	if !p.Slot.Empty() {
		t.Error("dead player collected a pickup")
	}
}
