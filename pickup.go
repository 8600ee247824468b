package main

const (
	PickupTouchRange   = 2.5
	PickupTouchHeight  = 3.0
	PickupRespawnDelay = 12.0 // seconds before a taken pickup reappears
)

// Pickup is an ability orb at a fixed spawn spot. Taken pickups respawn in
// place after a delay.
type Pickup struct {
	ID        string
	AbilityID string
	Pos       Vec3
	Alive     bool
	RespawnT  float64
}

// NewPickup creates the pickup for a spawn spot
func NewPickup(spot PickupSpot) *Pickup {
	return &Pickup{
		ID:        GenerateID(4),
		AbilityID: spot.AbilityID,
		Pos:       spot.Pos,
		Alive:     true,
	}
}

// UpdatePickups ticks respawn timers
func (w *World) UpdatePickups(dt float64) {
	for _, pk := range w.pickups {
		if pk.Alive {
			continue
		}
		pk.RespawnT -= dt
		if pk.RespawnT <= 0 {
			pk.Alive = true
		}
	}
}

// CheckPickupContacts grants abilities on contact. A player already holding
// an ability leaves the pickup in place (collect rejects, slot preserved).
func (w *World) CheckPickupContacts() {
	for id, p := range w.players {
		if !p.Alive() || !p.Slot.Empty() {
			continue
		}
		body, ok := w.physics.Body(id)
		if !ok {
			continue
		}
		pos := body.Position()
		for _, pk := range w.pickups {
			if !pk.Alive {
				continue
			}
			if !InCylinder(pos, Vec3{pk.Pos.X, pk.Pos.Y - PickupTouchHeight/2, pk.Pos.Z}, PickupTouchRange, PickupTouchHeight) {
				continue
			}
			if w.CollectAbility(p, pk.AbilityID) {
				pk.Alive = false
				pk.RespawnT = PickupRespawnDelay
				w.publish(EvPickup, p, pk.Pos, `{"ability":"`+pk.AbilityID+`"}`)
				break
			}
		}
	}
}
