package main

import "math"

// Bot tuning
const (
	BotWanderMin    = 5.0  // seconds between wander target re-rolls
	BotWanderMax    = 10.0
	BotWanderReach  = 6.0  // distance at which the wander target counts as reached
	BotTurnGain     = 0.35 // turn input per meter of lateral offset
	BotThrustBehind = 0.35 // reduced thrust when the target is behind
	BotFireMin      = 0.6  // seconds between fire pulses, lower bound
	BotFireMax      = 2.2
	BotFireRange    = 60.0
	BotAbilityOdds  = 0.02 // per-tick chance to pop a held ability

	ReachVerticalBand = 2.0  // height band considered directly reachable
	ReachSafetyMargin = 0.75 // shaved off every pad's estimated apex
	GravityWorstCase  = 26.0 // pessimistic gravity for launch estimates
)

// PlayerInfo is a read-only snapshot of one ship for bot decisions
type PlayerInfo struct {
	ID       string
	Team     int
	Pos      Vec3
	Yaw      float64
	Vel      Vec3
	Health   int
	Alive    bool
	Grounded bool
	HasFlag  bool
}

// FlagInfo mirrors a flag's public state
type FlagInfo struct {
	Team      int
	Status    FlagStatus
	Pos       Vec3
	CarrierID string
}

// PickupInfo mirrors a live pickup
type PickupInfo struct {
	ID        string
	AbilityID string
	Pos       Vec3
}

// GameContext is the bot's read-only world facade, assembled fresh per
// query and never cached or mutated by the bot.
type GameContext struct {
	Self        PlayerInfo
	HeldAbility string
	AbilityLive bool
	Allies      []PlayerInfo
	Enemies     []PlayerInfo
	Obstacles   []Obstacle
	Pickups     []PickupInfo
	Flags       [2]FlagInfo
	Bases       [2]Vec3
	Scores      [2]int
	JumpPads    []JumpPad
}

// BuildContext assembles the snapshot for one bot. Missing transform or an
// unregistered id yields no context.
func (w *World) BuildContext(botID string) (*GameContext, bool) {
	self, ok := w.players[botID]
	if !ok {
		return nil, false
	}
	body, ok := w.physics.Body(botID)
	if !ok {
		return nil, false
	}
	ctx := &GameContext{
		Self:        playerInfo(self, body, w),
		HeldAbility: self.Slot.AbilityID,
		AbilityLive: w.IsAbilityActive(self),
		Obstacles:   w.arena.Obstacles,
		JumpPads:    w.arena.JumpPads,
		Scores:      w.scores,
	}
	for id, p := range w.players {
		if id == botID {
			continue
		}
		b, ok := w.physics.Body(id)
		if !ok {
			continue
		}
		info := playerInfo(p, b, w)
		if p.Team == self.Team {
			ctx.Allies = append(ctx.Allies, info)
		} else {
			ctx.Enemies = append(ctx.Enemies, info)
		}
	}
	for _, pk := range w.pickups {
		if pk.Alive {
			ctx.Pickups = append(ctx.Pickups, PickupInfo{ID: pk.ID, AbilityID: pk.AbilityID, Pos: pk.Pos})
		}
	}
	for i := range w.flags {
		f := w.flags[i]
		ctx.Flags[i] = FlagInfo{Team: f.Team, Status: f.Status, Pos: f.Pos, CarrierID: f.CarrierID}
		ctx.Bases[i] = w.bases[i].Pos
	}
	return ctx, true
}

func playerInfo(p *Player, body PhysicsBody, w *World) PlayerInfo {
	hasFlag := false
	for i := range w.flags {
		if w.flags[i].Status == FlagCarried && w.flags[i].CarrierID == p.ID {
			hasFlag = true
		}
	}
	return PlayerInfo{
		ID:       p.ID,
		Team:     p.Team,
		Pos:      body.Position(),
		Yaw:      body.Yaw(),
		Vel:      body.Velocity(),
		Health:   p.Health,
		Alive:    p.Alive(),
		Grounded: body.Grounded(),
		HasFlag:  hasFlag,
	}
}

// ReachabilityChecker estimates whether a target height can be reached,
// directly or via a jump pad
type ReachabilityChecker struct {
	GravityWorst float64
	VerticalBand float64
	SafetyMargin float64
}

func DefaultReachability() ReachabilityChecker {
	return ReachabilityChecker{
		GravityWorst: GravityWorstCase,
		VerticalBand: ReachVerticalBand,
		SafetyMargin: ReachSafetyMargin,
	}
}

// MaxLaunchHeight estimates the apex a pad can throw a ship to, using the
// worst-case gravity and shaving the safety margin
func (rc ReachabilityChecker) MaxLaunchHeight(pad JumpPad) float64 {
	return pad.LaunchSpeed*pad.LaunchSpeed/(2*rc.GravityWorst) + pad.Pos.Y - rc.SafetyMargin
}

// Route decides how to get from `from` to `target`. padIdx is -1 when the
// target is directly reachable; otherwise it indexes the pad minimizing
// (bot->pad)+(pad->target) among pads whose apex clears the target height.
// ok is false when no pad qualifies.
func (rc ReachabilityChecker) Route(from Vec3, airborne bool, target Vec3, pads []JumpPad) (int, bool) {
	if math.Abs(from.Y-target.Y) <= rc.VerticalBand {
		return -1, true
	}
	if airborne && from.Y > target.Y {
		return -1, true
	}
	best := -1
	bestCost := math.MaxFloat64
	for i, pad := range pads {
		if rc.MaxLaunchHeight(pad) < target.Y {
			continue
		}
		cost := HorizDist(from, pad.Pos) + HorizDist(pad.Pos, target)
		if cost < bestCost {
			bestCost = cost
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// BotController synthesizes per-tick input for one AI ship. Its output has
// the same shape as human controller input and is consumed identically.
type BotController struct {
	id      string
	reach   ReachabilityChecker
	wander  Vec3
	wanderT float64
	fireT   float64
}

func NewBotController(id string) *BotController {
	b := &BotController{id: id, reach: DefaultReachability()}
	b.rerollWander()
	b.fireT = randRange(BotFireMin, BotFireMax)
	return b
}

func (b *BotController) rerollWander() {
	lim := ArenaExtent * 0.8
	b.wander = Vec3{X: randRange(-lim, lim), Z: randRange(-lim, lim)}
	b.wanderT = randRange(BotWanderMin, BotWanderMax)
}

// Decide produces this tick's input from a fresh context
func (b *BotController) Decide(ctx *GameContext, dt float64) InputState {
	self := ctx.Self

	b.wanderT -= dt
	if b.wanderT <= 0 || HorizDist(self.Pos, b.wander) < BotWanderReach {
		b.rerollWander()
	}

	target := b.pickTarget(ctx)

	// Route through a jump pad when the target sits above the direct band
	if padIdx, ok := b.reach.Route(self.Pos, !self.Grounded, target, ctx.JumpPads); ok {
		if padIdx >= 0 {
			target = ctx.JumpPads[padIdx].Pos
		}
	} else {
		target = b.wander
	}

	// Steering in the bot's local frame: turn proportional to the lateral
	// offset, thrust full when the target is ahead
	delta := target.Sub(self.Pos)
	fwd := YawForward(self.Yaw)
	right := YawRight(self.Yaw)
	localFwd := delta.Dot(fwd)
	localLat := delta.Dot(right)

	input := InputState{
		Turn:   Clamp(localLat*BotTurnGain, -1, 1),
		Thrust: 1,
	}
	if localFwd < 0 {
		input.Thrust = BotThrustBehind
	}

	// Fire at a bounded random rate when an enemy is in range and ahead
	b.fireT -= dt
	if b.fireT <= 0 {
		if b.enemyAhead(ctx) {
			input.Fire = true
		}
		b.fireT = randRange(BotFireMin, BotFireMax)
	}

	if ctx.HeldAbility != "" && !ctx.AbilityLive && randFloat() < BotAbilityOdds {
		input.Ability = true
	}
	return input
}

// pickTarget chooses the objective: deliver a carried flag, chase the enemy
// flag, detour for a pickup, or wander
func (b *BotController) pickTarget(ctx *GameContext) Vec3 {
	self := ctx.Self
	if self.HasFlag {
		return ctx.Bases[self.Team%2]
	}
	enemyFlag := ctx.Flags[(self.Team+1)%2]
	if enemyFlag.Status != FlagCarried {
		return enemyFlag.Pos
	}
	if ctx.HeldAbility == "" {
		best := Vec3{}
		bestD := 60.0
		found := false
		for _, pk := range ctx.Pickups {
			if d := HorizDist(self.Pos, pk.Pos); d < bestD {
				bestD = d
				best = pk.Pos
				found = true
			}
		}
		if found {
			return best
		}
	}
	return b.wander
}

func (b *BotController) enemyAhead(ctx *GameContext) bool {
	fwd := YawForward(ctx.Self.Yaw)
	for _, e := range ctx.Enemies {
		if !e.Alive {
			continue
		}
		delta := e.Pos.Sub(ctx.Self.Pos)
		d := delta.Len()
		if d > BotFireRange || d == 0 {
			continue
		}
		if delta.Scale(1/d).Dot(fwd) > 0.85 {
			return true
		}
	}
	return false
}
