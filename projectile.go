package main

import "math"

// ProjectileKind distinguishes the two projectile behaviors
type ProjectileKind int

const (
	KindBolt  ProjectileKind = 0 // fast, single target, fixed damage
	KindShell ProjectileKind = 1 // slower, splash damage plus knockback
)

const (
	BoltSpeed    = 90.0 // m/s
	BoltLifetime = 1.5  // seconds
	BoltDamage   = 18

	ShellSpeed      = 45.0
	ShellLifetime   = 3.0
	ShellBaseDamage = 60
	ShellRadius     = 12.0 // splash radius; damage falls linearly to zero here
	ShellKnockback  = 22.0 // impulse at zero distance

	MuzzleForward = 2.5 // spawn offset along the firer's forward axis
	MuzzleUp      = 1.0
	DecalLift     = 0.05 // decal offset along the surface normal
)

// Projectile is a hit-scan projectile advanced by per-tick segment raycasts
type Projectile struct {
	ID      string
	Kind    ProjectileKind
	OwnerID string
	Pos     Vec3
	Dir     Vec3
	Speed   float64
	Life    float64
	Alive   bool
}

// SpawnBolt fires a bolt from the player's muzzle. A missing transform is
// a silent no-op, retried next tick.
func (w *World) SpawnBolt(p *Player) *Projectile {
	return w.spawnProjectile(p, KindBolt, BoltSpeed, BoltLifetime)
}

// SpawnShell fires a shell from the player's muzzle (ability-activated)
func (w *World) SpawnShell(p *Player) *Projectile {
	return w.spawnProjectile(p, KindShell, ShellSpeed, ShellLifetime)
}

func (w *World) spawnProjectile(p *Player, kind ProjectileKind, speed, life float64) *Projectile {
	body, ok := w.physics.Body(p.ID)
	if !ok {
		return nil
	}
	dir := YawForward(body.Yaw())
	pos := body.Position().Add(dir.Scale(MuzzleForward))
	pos.Y += MuzzleUp
	proj := &Projectile{
		ID:      GenerateID(3),
		Kind:    kind,
		OwnerID: p.ID,
		Pos:     pos,
		Dir:     dir,
		Speed:   speed,
		Life:    life,
		Alive:   true,
	}
	w.projectiles[proj.ID] = proj
	return proj
}

// AdvanceProjectiles moves every projectile by speed*dt and resolves hits
// by casting the segment from previous to new position — a point test would
// tunnel through hulls at these speeds. Players are tested before static
// geometry and always win.
func (w *World) AdvanceProjectiles(dt float64) {
	for id, proj := range w.projectiles {
		if !proj.Alive {
			delete(w.projectiles, id)
			continue
		}
		proj.Life -= dt
		if proj.Life <= 0 {
			// TTL exceeded with no hit: remove silently
			delete(w.projectiles, id)
			continue
		}
		prev := proj.Pos
		next := prev.Add(proj.Dir.Scale(proj.Speed * dt))
		if prev == next {
			continue // zero-length movement skips the raycast
		}

		if victim, t, ok := w.castPlayers(proj, prev, next); ok {
			impact := prev.Add(next.Sub(prev).Scale(t))
			w.resolvePlayerHit(proj, victim, impact)
			delete(w.projectiles, id)
			continue
		}
		if normal, t, ok := w.castGeometry(prev, next); ok {
			impact := prev.Add(next.Sub(prev).Scale(t))
			w.AddDecal(impact.Add(normal.Scale(DecalLift)), normal)
			delete(w.projectiles, id)
			continue
		}
		proj.Pos = next
	}
}

// castPlayers finds the earliest hull intersection along the segment,
// excluding the firer and the dead
func (w *World) castPlayers(proj *Projectile, p0, p1 Vec3) (*Player, float64, bool) {
	var best *Player
	bestT := math.MaxFloat64
	for id, p := range w.players {
		if id == proj.OwnerID || !p.Alive() {
			continue
		}
		body, ok := w.physics.Body(id)
		if !ok {
			continue
		}
		if t, hit := SegmentSphere(p0, p1, body.Position(), PlayerHullRadius); hit && t < bestT {
			bestT = t
			best = p
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestT, true
}

// castGeometry tests the segment against obstacles, platforms, and the
// ground plane, returning the surface normal at the earliest hit
func (w *World) castGeometry(p0, p1 Vec3) (Vec3, float64, bool) {
	bestT := math.MaxFloat64
	var bestN Vec3
	found := false
	for _, o := range w.arena.Obstacles {
		if t, hit := SegmentSphere(p0, p1, o.Pos, o.Radius); hit && t < bestT {
			bestT = t
			impact := p0.Add(p1.Sub(p0).Scale(t))
			bestN = obstacleSurfaceNormal(o, impact)
			found = true
		}
	}
	for _, o := range w.arena.Platforms {
		if t, hit := SegmentSphere(p0, p1, o.Pos, o.Radius); hit && t < bestT {
			bestT = t
			impact := p0.Add(p1.Sub(p0).Scale(t))
			bestN = obstacleSurfaceNormal(o, impact)
			found = true
		}
	}
	if t, hit := SegmentGround(p0, p1); hit && t < bestT {
		bestT = t
		bestN = Vec3{Y: 1}
		found = true
	}
	return bestN, bestT, found
}

// resolvePlayerHit applies the projectile's effect at the impact point
func (w *World) resolvePlayerHit(proj *Projectile, victim *Player, impact Vec3) {
	switch proj.Kind {
	case KindBolt:
		victim.ReduceHealth(BoltDamage)
		victim.LastHitBy = proj.OwnerID
		w.publish(EvHit, victim, impact, "")
	case KindShell:
		w.detonateShell(proj, impact)
	}
	vBody, ok := w.physics.Body(victim.ID)
	normal := Vec3{Y: 1}
	if ok {
		normal = impact.Sub(vBody.Position()).Norm()
	}
	w.AddDecal(impact.Add(normal.Scale(DecalLift)), normal)
}

// detonateShell deals linear-falloff splash damage plus knockback to every
// player within ShellRadius of the impact, firer excluded. Candidates come
// from the physics broad phase.
func (w *World) detonateShell(proj *Projectile, impact Vec3) {
	for _, id := range w.physics.QueryNear(impact, ShellRadius) {
		if id == proj.OwnerID {
			continue
		}
		p, ok := w.players[id]
		if !ok || !p.Alive() {
			continue
		}
		body, ok := w.physics.Body(id)
		if !ok {
			continue
		}
		d := body.Position().Sub(impact).Len()
		falloff := 1 - d/ShellRadius
		dmg := int(math.Ceil(ShellBaseDamage * falloff))
		p.ReduceHealth(dmg)
		p.LastHitBy = proj.OwnerID
		push := body.Position().Sub(impact).Norm()
		if push.LenSq() == 0 {
			push = Vec3{Y: 1}
		}
		push.Y += 0.3 // lift a little so knockback reads on flat ground
		body.ApplyImpulse(push.Norm().Scale(ShellKnockback * falloff))
		w.publish(EvHit, p, impact, "")
	}
}
