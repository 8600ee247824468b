package main

// Arena layout constants. The arena is a square [-ArenaExtent, ArenaExtent]
// on the XZ plane with the ground at y=0.
const (
	ArenaExtent    = 160.0
	Gravity        = 24.0
	BaseRingMin    = 70.0  // min distance of a team base from center
	BaseRingMax    = 150.0 // max distance of a team base from center
	BaseEdgeMargin = 20.0  // bases keep this far from the arena boundary
	BaseRadius     = 10.0  // scoring/return ring around a base
	FlagTouchRange = 3.5
	FlagTouchHeight = 4.0

	JumpPadRadius  = 3.0
	JumpPadSpeed   = 18.0 // vertical launch speed
	MaxDecals      = 64
)

// Obstacle is a static sphere the arena is furnished with
type Obstacle struct {
	ID     string
	Pos    Vec3
	Radius float64
}

// JumpPad launches ships vertically when crossed
type JumpPad struct {
	ID          string
	Pos         Vec3
	Radius      float64
	LaunchSpeed float64
}

// Decal is a surface mark left by a projectile impact, offset slightly
// along the surface normal so the renderer can place it without z-fighting
type Decal struct {
	ID     string
	Pos    Vec3
	Normal Vec3
}

// PickupSpot is a fixed pickup spawn point with the ability it grants
type PickupSpot struct {
	Pos       Vec3
	AbilityID string
}

// ArenaLayout describes the static world a match plays in
type ArenaLayout struct {
	Obstacles   []Obstacle
	JumpPads    []JumpPad
	PickupSpots []PickupSpot
	Platforms   []Obstacle // flat-topped columns; pickups can sit on them
}

// DefaultArena returns the standard arena furniture. Elevated pickup spots
// sit above platform tops and are reached via the jump pads.
func DefaultArena() ArenaLayout {
	obstacles := []Obstacle{
		{ID: "rock-a", Pos: Vec3{40, 4, 25}, Radius: 6},
		{ID: "rock-b", Pos: Vec3{-55, 5, 40}, Radius: 8},
		{ID: "rock-c", Pos: Vec3{20, 3, -60}, Radius: 5},
		{ID: "rock-d", Pos: Vec3{-30, 6, -35}, Radius: 9},
		{ID: "rock-e", Pos: Vec3{90, 4, -10}, Radius: 6},
		{ID: "rock-f", Pos: Vec3{-95, 4, -70}, Radius: 7},
	}
	platforms := []Obstacle{
		{ID: "plat-n", Pos: Vec3{0, 2.5, 70}, Radius: 5},
		{ID: "plat-s", Pos: Vec3{0, 2.5, -70}, Radius: 5},
	}
	pads := []JumpPad{
		{ID: "pad-n", Pos: Vec3{10, 0, 62}, Radius: JumpPadRadius, LaunchSpeed: JumpPadSpeed},
		{ID: "pad-s", Pos: Vec3{-10, 0, -62}, Radius: JumpPadRadius, LaunchSpeed: JumpPadSpeed},
		{ID: "pad-c", Pos: Vec3{0, 0, 0}, Radius: JumpPadRadius, LaunchSpeed: JumpPadSpeed},
	}
	spots := []PickupSpot{
		{Pos: Vec3{0, 6, 70}, AbilityID: AbilitySurge},    // on plat-n, pad-n reaches it
		{Pos: Vec3{0, 6, -70}, AbilityID: AbilityLauncher}, // on plat-s, pad-s reaches it
		{Pos: Vec3{60, 1, 60}, AbilityID: AbilityRepair},
		{Pos: Vec3{-60, 1, -60}, AbilityID: AbilityRepair},
		{Pos: Vec3{-70, 1, 55}, AbilityID: AbilitySurge},
		{Pos: Vec3{70, 1, -55}, AbilityID: AbilityLauncher},
	}
	return ArenaLayout{
		Obstacles:   obstacles,
		JumpPads:    pads,
		PickupSpots: spots,
		Platforms:   platforms,
	}
}
