package main

const (
	PlayerMaxHealth  = 100
	PlayerHullRadius = 2.0
	RespawnTime      = 3.0 // seconds before respawn
	maxNameLen       = 16
)

// Ship hull colors handed out per team, cycled by join order
var teamPalettes = [2][]string{
	{"#4f6bff", "#6f8cff", "#3a51cc", "#8aa0ff"}, // indigo
	{"#ffb54f", "#ffc878", "#cc8a2e", "#ffd9a0"}, // amber
}

// Player is one controller slot in the arena: identity, team, display
// profile, buffered input, health, and the single ability slot. The ship's
// transform lives in the physics collaborator under the same id.
type Player struct {
	ID           string
	Name         string
	Team         int
	Color        string
	ShipType     int
	AuthPlayerID int64 // 0 = guest

	Health    int
	dead      bool // latch for edge-triggered death detection
	RespawnT  float64
	LastHitBy string

	Input    InputState // latched by the gateway, consumed once per tick
	prevFire bool       // previous tick's fire trigger, for edge detection

	smoothTurn   float64
	smoothThrust float64
	SpeedMul     float64 // ability-supplied multiplier, 1.0 = unmodified

	Slot AbilitySlot

	Kills    int
	Deaths   int
	Captures int

	bot *BotController // nil for human controllers
}

// NewPlayer creates a player slot on the given team
func NewPlayer(id, name string, team, shipType int) *Player {
	palette := teamPalettes[team%2]
	return &Player{
		ID:       id,
		Name:     name,
		Team:     team,
		Color:    palette[shipType%len(palette)],
		ShipType: shipType,
		Health:   PlayerMaxHealth,
		SpeedMul: 1.0,
	}
}

// Alive reports whether the player is not currently dead
func (p *Player) Alive() bool {
	return !p.dead
}

// IsBot reports whether this slot is driven by the bot controller
func (p *Player) IsBot() bool {
	return p.bot != nil
}

// FireEdge reports a rising edge of the fire trigger and advances the
// edge detector. Call exactly once per tick.
func (p *Player) FireEdge() bool {
	edge := p.Input.Fire && !p.prevFire
	p.prevFire = p.Input.Fire
	return edge
}
