package main

// SetHealth writes health clamped to [0, PlayerMaxHealth]. Out-of-range
// values are clamped, never rejected.
func (p *Player) SetHealth(h int) {
	if h < 0 {
		h = 0
	}
	if h > PlayerMaxHealth {
		h = PlayerMaxHealth
	}
	p.Health = h
}

// ReduceHealth subtracts damage, clamping at zero
func (p *Player) ReduceHealth(dmg int) {
	p.SetHealth(p.Health - dmg)
}

// Heal adds health, clamping at max
func (p *Player) Heal(amount int) {
	p.SetHealth(p.Health + amount)
}

// CheckDeath returns true exactly once per transition from >0 to <=0.
// Repeated calls while still at zero return false; the latch resets on
// Respawn. This debouncing keeps death events from firing twice when two
// damage sources land in the same physics step.
func (p *Player) CheckDeath() bool {
	if p.Health > 0 {
		p.dead = false
		return false
	}
	if p.dead {
		return false
	}
	p.dead = true
	return true
}

// Respawn restores full health and clears the death latch
func (p *Player) Respawn() {
	p.Health = PlayerMaxHealth
	p.dead = false
	p.RespawnT = 0
	p.LastHitBy = ""
}
