package main

import "testing"

func TestPhysicsGravityAndGround(t *testing.T) {
	lp := NewLocalPhysics()
	body := lp.AddBody("a", Vec3{Y: 10}, 2)

	dt := 1.0 / TickRate
	for i := 0; i < 5*TickRate; i++ {
		lp.Step(dt)
	}

	if body.Position().Y != 0 {
		t.Errorf("body should settle on the ground, Y = %v", body.Position().Y)
	}
	if !body.Grounded() {
		t.Error("settled body should be grounded")
	}
	if body.Velocity().Y != 0 {
		t.Errorf("grounded body should have zero vertical velocity, got %v", body.Velocity().Y)
	}
}

func TestPhysicsArenaWalls(t *testing.T) {
	lp := NewLocalPhysics()
	body := lp.AddBody("a", Vec3{X: ArenaExtent - 1}, 2)
	body.SetVelocity(Vec3{X: 100})

	for i := 0; i < TickRate; i++ {
		lp.Step(1.0 / TickRate)
	}

	if body.Position().X > ArenaExtent {
		t.Errorf("body escaped the arena: X = %v", body.Position().X)
	}
	if body.Velocity().X != 0 {
		t.Errorf("wall should stop outward velocity, got %v", body.Velocity().X)
	}
}

func TestPhysicsContactFiresOncePerPair(t *testing.T) {
	lp := NewLocalPhysics()
	lp.AddBody("a", Vec3{}, 2)
	lp.AddBody("b", Vec3{X: 1}, 2)

	count := 0
	lp.OnContact(func(a, b string) { count++ })
	lp.Step(1.0 / TickRate)

	if count != 1 {
		t.Errorf("overlapping pair reported %d times, want 1", count)
	}
}

func TestPhysicsContactFiresEveryOverlappingStep(t *testing.T) {
	lp := NewLocalPhysics()
	lp.AddBody("a", Vec3{}, 2)
	b := lp.AddBody("b", Vec3{X: 1}, 2)

	count := 0
	lp.OnContact(func(a, b string) { count++ })
	for i := 0; i < 3; i++ {
		lp.Step(1.0 / TickRate)
	}
	if count != 3 {
		t.Errorf("contact reported %d times over 3 overlapping steps, want 3", count)
	}

	// Separate, then re-collide: the pair must report again
	b.SetPosition(Vec3{X: 50})
	lp.Step(1.0 / TickRate)
	if count != 3 {
		t.Errorf("separated pair still reported, count = %d", count)
	}
	b.SetPosition(Vec3{X: 1})
	lp.Step(1.0 / TickRate)
	if count != 4 {
		t.Errorf("re-colliding pair reported count = %d, want 4", count)
	}
}

func TestPhysicsQueryNear(t *testing.T) {
	lp := NewLocalPhysics()
	lp.AddBody("near", Vec3{X: 3}, 2)
	lp.AddBody("far", Vec3{X: 40}, 2)

	ids := lp.QueryNear(Vec3{}, 10)
	if len(ids) != 1 || ids[0] != "near" {
		t.Errorf("QueryNear = %v, want [near]", ids)
	}
}

func TestPhysicsNoContactWhenApart(t *testing.T) {
	lp := NewLocalPhysics()
	lp.AddBody("a", Vec3{}, 2)
	lp.AddBody("b", Vec3{X: 50}, 2)

	count := 0
	lp.OnContact(func(a, b string) { count++ })
	lp.Step(1.0 / TickRate)

	if count != 0 {
		t.Errorf("separated bodies reported %d contacts", count)
	}
}

func TestPhysicsStepReentryIgnored(t *testing.T) {
	lp := NewLocalPhysics()
	lp.AddBody("a", Vec3{}, 2)
	lp.AddBody("b", Vec3{X: 1}, 2)

	count := 0
	lp.OnContact(func(a, b string) {
		count++
		lp.Step(1.0 / TickRate) // must not recurse
	})
	lp.Step(1.0 / TickRate)

	if count != 1 {
		t.Errorf("re-entrant step changed contact count: %d", count)
	}
}

func TestPhysicsRemoveBody(t *testing.T) {
	lp := NewLocalPhysics()
	lp.AddBody("a", Vec3{}, 2)
	lp.RemoveBody("a")
	if _, ok := lp.Body("a"); ok {
		t.Error("removed body still present")
	}
	lp.Step(1.0 / TickRate) // must not panic
}

func TestPhysicsApplyImpulse(t *testing.T) {
	lp := NewLocalPhysics()
	body := lp.AddBody("a", Vec3{Y: 5}, 2)
	body.ApplyImpulse(Vec3{X: 3, Y: 1})

	v := body.Velocity()
	if v.X != 3 || v.Y != 1 {
		t.Errorf("velocity after impulse = %v", v)
	}
}

func TestSeparationImpulseDirection(t *testing.T) {
	imp := separationImpulse(Vec3{X: 1}, Vec3{}, 2, 2, 10)
	if imp.X <= 0 {
		t.Errorf("impulse should push a away from b, X = %v", imp.X)
	}
	// Coincident centers still produce a deterministic nonzero push
	imp = separationImpulse(Vec3{}, Vec3{}, 2, 2, 10)
	if imp == (Vec3{}) {
		t.Error("coincident bodies should still separate")
	}
}
