package main

// Ability ids shipped with the game
const (
	AbilitySurge    = "surge"    // speed multiplier buff
	AbilityRepair   = "repair"   // instant heal, no deactivate
	AbilityLauncher = "launcher" // fires a shell on activate
)

const (
	SurgeMultiplier = 1.6
	SurgeDuration   = 6.0
	RepairAmount    = 50
)

// AbilityDef describes one ability kind. OnActivate runs exactly once when
// the ability activates; OnDeactivate (optional) exactly once when the slot
// is cleared after an activation. New abilities register here without the
// lifecycle code changing.
type AbilityDef struct {
	ID           string
	Name         string
	Duration     float64 // seconds; 0 = one-shot, inactive immediately
	OnActivate   func(w *World, p *Player)
	OnDeactivate func(w *World, p *Player)
}

var abilityRegistry = map[string]AbilityDef{}

// RegisterAbility adds an ability kind to the registry
func RegisterAbility(def AbilityDef) {
	abilityRegistry[def.ID] = def
}

// AbilityByID looks up a registered ability
func AbilityByID(id string) (AbilityDef, bool) {
	def, ok := abilityRegistry[id]
	return def, ok
}

// AbilitySlot is the single per-player slot:
// empty -> equipped-inactive -> equipped-active
type AbilitySlot struct {
	AbilityID   string
	ActivatedAt float64
	Activated   bool
}

// Empty reports whether no ability is held
func (s AbilitySlot) Empty() bool {
	return s.AbilityID == ""
}

// CollectAbility equips an ability into an empty slot. Collecting while
// already holding one is rejected and the held ability preserved.
func (w *World) CollectAbility(p *Player, id string) bool {
	if !p.Slot.Empty() {
		return false
	}
	if _, ok := abilityRegistry[id]; !ok {
		return false
	}
	p.Slot = AbilitySlot{AbilityID: id}
	return true
}

// ActivateAbility moves an equipped-inactive slot to equipped-active,
// stamping the activation time and running OnActivate exactly once. A
// mismatched id or an already-active slot is a silent no-op.
func (w *World) ActivateAbility(p *Player, id string) bool {
	if p.Slot.Empty() || p.Slot.AbilityID != id || p.Slot.Activated {
		return false
	}
	def, ok := abilityRegistry[id]
	if !ok {
		return false
	}
	p.Slot.Activated = true
	p.Slot.ActivatedAt = w.now
	if def.OnActivate != nil {
		def.OnActivate(w, p)
	}
	return true
}

// AbilityRemaining returns the active time left, zero when not activated
// or already expired. Expiry is computed lazily on query; no timers.
func (w *World) AbilityRemaining(p *Player) float64 {
	if p.Slot.Empty() || !p.Slot.Activated {
		return 0
	}
	def, ok := abilityRegistry[p.Slot.AbilityID]
	if !ok {
		return 0
	}
	rem := def.Duration - (w.now - p.Slot.ActivatedAt)
	if rem < 0 {
		rem = 0
	}
	return rem
}

// IsAbilityActive reports whether the slot is activated with time left.
// Expiry does not auto-clear the slot; an explicit ClearAbility does.
func (w *World) IsAbilityActive(p *Player) bool {
	return !p.Slot.Empty() && p.Slot.Activated && w.AbilityRemaining(p) > 0
}

// ClearAbility resets the slot to empty, running OnDeactivate exactly once
// if the ability was actually activated. Clearing an empty slot is a no-op.
func (w *World) ClearAbility(p *Player) {
	if p.Slot.Empty() {
		return
	}
	if p.Slot.Activated {
		if def, ok := abilityRegistry[p.Slot.AbilityID]; ok && def.OnDeactivate != nil {
			def.OnDeactivate(w, p)
		}
	}
	p.Slot = AbilitySlot{}
}

func init() {
	RegisterAbility(AbilityDef{
		ID:       AbilitySurge,
		Name:     "Surge",
		Duration: SurgeDuration,
		OnActivate: func(w *World, p *Player) {
			p.SpeedMul = SurgeMultiplier
		},
		OnDeactivate: func(w *World, p *Player) {
			p.SpeedMul = 1.0
		},
	})
	RegisterAbility(AbilityDef{
		ID:   AbilityRepair,
		Name: "Nano Repair",
		OnActivate: func(w *World, p *Player) {
			p.Heal(RepairAmount)
		},
	})
	RegisterAbility(AbilityDef{
		ID:   AbilityLauncher,
		Name: "Shell Launcher",
		OnActivate: func(w *World, p *Player) {
			w.SpawnShell(p)
		},
	})
}
