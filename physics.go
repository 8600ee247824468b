package main

// PhysicsBody is the per-body surface of the physics collaborator. The
// simulation core reads and writes velocities; position integration stays
// on the physics side.
type PhysicsBody interface {
	Position() Vec3
	SetPosition(Vec3)
	Yaw() float64
	SetYaw(float64)
	Velocity() Vec3
	SetVelocity(Vec3)
	AngularVelocity() float64
	SetAngularVelocity(float64)
	ApplyImpulse(Vec3)
	Grounded() bool
}

// PhysicsWorld is the rigid-body collaborator the match consumes. Contact
// callbacks fire synchronously at the end of Step, after integration, and
// must not call Step again.
type PhysicsWorld interface {
	AddBody(id string, pos Vec3, radius float64) PhysicsBody
	RemoveBody(id string)
	Body(id string) (PhysicsBody, bool)
	OnContact(fn func(a, b string))
	QueryNear(pos Vec3, radius float64) []string
	Step(dt float64)
}

// localPhysics is the kinematic host implementation: gravity, ground plane,
// arena bounds, and sphere-sphere contact reporting via the broad-phase grid.
type localPhysics struct {
	bodies    map[string]*kineBody
	slots     []*kineBody // rebuilt each step for grid indexing
	grid      SpatialGrid
	queryBuf  []int
	seen      []int // pair dedupe: seen[j] == pairStamp means j already paired with the current body
	pairStamp int
	contacts  []func(a, b string)
	stepping  bool
}

type kineBody struct {
	id       string
	pos      Vec3
	yaw      float64
	vel      Vec3
	angVel   float64
	radius   float64
	grounded bool
}

func NewLocalPhysics() PhysicsWorld {
	return &localPhysics{bodies: make(map[string]*kineBody)}
}

func (b *kineBody) Position() Vec3             { return b.pos }
func (b *kineBody) SetPosition(p Vec3)         { b.pos = p }
func (b *kineBody) Yaw() float64               { return b.yaw }
func (b *kineBody) SetYaw(y float64)           { b.yaw = NormalizeAngle(y) }
func (b *kineBody) Velocity() Vec3             { return b.vel }
func (b *kineBody) SetVelocity(v Vec3)         { b.vel = v }
func (b *kineBody) AngularVelocity() float64   { return b.angVel }
func (b *kineBody) SetAngularVelocity(w float64) { b.angVel = w }
func (b *kineBody) ApplyImpulse(i Vec3)        { b.vel = b.vel.Add(i) }
func (b *kineBody) Grounded() bool             { return b.grounded }

func (lp *localPhysics) AddBody(id string, pos Vec3, radius float64) PhysicsBody {
	b := &kineBody{id: id, pos: pos, radius: radius, grounded: pos.Y <= 0}
	lp.bodies[id] = b
	return b
}

func (lp *localPhysics) RemoveBody(id string) {
	delete(lp.bodies, id)
}

func (lp *localPhysics) Body(id string) (PhysicsBody, bool) {
	b, ok := lp.bodies[id]
	return b, ok
}

func (lp *localPhysics) OnContact(fn func(a, b string)) {
	lp.contacts = append(lp.contacts, fn)
}

// QueryNear returns ids of bodies within radius of pos (3D distance)
func (lp *localPhysics) QueryNear(pos Vec3, radius float64) []string {
	var out []string
	for id, b := range lp.bodies {
		if b.pos.Sub(pos).LenSq() <= radius*radius {
			out = append(out, id)
		}
	}
	return out
}

// Step integrates all bodies, then reports deduplicated contact pairs.
// Re-entry is a programming error and is ignored rather than recursed.
func (lp *localPhysics) Step(dt float64) {
	if lp.stepping {
		return
	}
	lp.stepping = true
	defer func() { lp.stepping = false }()

	lp.slots = lp.slots[:0]
	for _, b := range lp.bodies {
		b.vel.Y -= Gravity * dt
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.yaw = NormalizeAngle(b.yaw + b.angVel*dt)

		// Ground plane
		if b.pos.Y <= 0 {
			b.pos.Y = 0
			if b.vel.Y < 0 {
				b.vel.Y = 0
			}
			b.grounded = true
		} else {
			b.grounded = false
		}

		// Arena bounds: stop at the wall
		if b.pos.X < -ArenaExtent {
			b.pos.X = -ArenaExtent
			if b.vel.X < 0 {
				b.vel.X = 0
			}
		} else if b.pos.X > ArenaExtent {
			b.pos.X = ArenaExtent
			if b.vel.X > 0 {
				b.vel.X = 0
			}
		}
		if b.pos.Z < -ArenaExtent {
			b.pos.Z = -ArenaExtent
			if b.vel.Z < 0 {
				b.vel.Z = 0
			}
		} else if b.pos.Z > ArenaExtent {
			b.pos.Z = ArenaExtent
			if b.vel.Z > 0 {
				b.vel.Z = 0
			}
		}

		lp.slots = append(lp.slots, b)
	}

	// Broad phase: rebuild grid, collect overlapping pairs once
	lp.grid.Clear()
	for i, b := range lp.slots {
		lp.grid.InsertCircle(b.pos.X, b.pos.Z, b.radius, i)
	}
	type pair struct{ a, b string }
	var hits []pair
	if len(lp.seen) < len(lp.slots) {
		lp.seen = make([]int, len(lp.slots))
	}
	for i, b := range lp.slots {
		// Fresh stamp per body: a marker from an earlier body or an earlier
		// step never suppresses this pair
		lp.pairStamp++
		lp.queryBuf = lp.queryBuf[:0]
		lp.queryBuf = lp.grid.QueryBuf(b.pos.X, b.pos.Z, b.radius, lp.queryBuf)
		for _, j := range lp.queryBuf {
			if j <= i || lp.seen[j] == lp.pairStamp {
				continue // each pair once, even across shared cells
			}
			lp.seen[j] = lp.pairStamp
			o := lp.slots[j]
			if CheckOverlap(b.pos, b.radius, o.pos, o.radius) {
				hits = append(hits, pair{b.id, o.id})
			}
		}
	}

	// Callbacks run after integration so handlers see settled positions
	for _, h := range hits {
		for _, fn := range lp.contacts {
			fn(h.a, h.b)
		}
	}
}

// separationImpulse returns an impulse pushing body a away from body b,
// scaled by overlap depth. Used by the ship-bump contact handler.
func separationImpulse(a, b Vec3, ra, rb, strength float64) Vec3 {
	d := a.Sub(b)
	dist := d.Len()
	if dist == 0 {
		return Vec3{X: strength}
	}
	depth := (ra + rb) - dist
	if depth < 0 {
		depth = 0
	}
	return d.Scale(strength * (1 + depth) / dist)
}

// obstacleSurfaceNormal returns the outward normal of an obstacle at the
// given surface point
func obstacleSurfaceNormal(o Obstacle, at Vec3) Vec3 {
	n := at.Sub(o.Pos)
	if n.LenSq() == 0 {
		return Vec3{Y: 1}
	}
	return n.Norm()
}

