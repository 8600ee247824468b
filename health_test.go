package main

import "testing"

func TestHealthClamping(t *testing.T) {
	p := NewPlayer("p1", "Tester", 0, 0)

	p.SetHealth(150)
	if p.Health != PlayerMaxHealth {
		t.Errorf("overheal not clamped: got %d", p.Health)
	}

	p.ReduceHealth(500)
	if p.Health != 0 {
		t.Errorf("health went below zero: got %d", p.Health)
	}

	p.Heal(30)
	if p.Health != 30 {
		t.Errorf("heal from zero: got %d, want 30", p.Health)
	}
}

func TestCheckDeathFiresOnce(t *testing.T) {
	p := NewPlayer("p1", "Tester", 0, 0)

	p.ReduceHealth(PlayerMaxHealth)
	if !p.CheckDeath() {
		t.Error("first zero crossing should report death")
	}
	if p.CheckDeath() {
		t.Error("second check at zero should not report death again")
	}
	// More damage while dead still doesn't re-fire
	p.ReduceHealth(10)
	if p.CheckDeath() {
		t.Error("damage while dead should not re-fire death")
	}
}

func TestCheckDeathRearmsAfterRespawn(t *testing.T) {
	p := NewPlayer("p1", "Tester", 0, 0)
	p.ReduceHealth(PlayerMaxHealth)
	p.CheckDeath()

	p.Respawn()
	if p.Health != PlayerMaxHealth {
		t.Errorf("respawn health = %d, want %d", p.Health, PlayerMaxHealth)
	}
	if !p.Alive() {
		t.Error("respawned player should be alive")
	}

	p.ReduceHealth(PlayerMaxHealth)
	if !p.CheckDeath() {
		t.Error("death latch should re-arm after respawn")
	}
}

func TestFireEdgeDetection(t *testing.T) {
	p := NewPlayer("p1", "Tester", 0, 0)

	p.Input.Fire = true
	if !p.FireEdge() {
		t.Error("rising edge should fire")
	}
	if p.FireEdge() {
		t.Error("held trigger should not fire again")
	}
	p.Input.Fire = false
	p.FireEdge()
	p.Input.Fire = true
	if !p.FireEdge() {
		t.Error("release and press should fire again")
	}
}
