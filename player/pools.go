// player/pools.go
package player

import (
	"sync"
)

// Resource ceilings. Gold and armor have no ceiling, only the zero
// floor. Health runs past 100 because station infirmaries overheal.
const (
	MaxHealth = 150
	MaxMana   = 100
	MaxFuel   = 100
	MaxOxygen = 100
)

// FlashKind tags the transient screen flash fired on health changes.
type FlashKind string

const (
	FlashDamage FlashKind = "damage"
	FlashHeal   FlashKind = "heal"
)

// Hooks are the side channels a health change feeds. Both are optional
// and invoked synchronously; the health push implementation is expected
// to hand off to a goroutine itself since it is best-effort.
type Hooks struct {
	Flash      func(kind FlashKind)
	PushHealth func(hp int)
}

// Pools 玩家资源池
// All mutations clamp to the resource's valid range; values never go
// negative.
type Pools struct {
	mutex  sync.RWMutex
	health int
	mana   int
	fuel   int
	gold   int
	armor  int
	oxygen int
	hooks  Hooks
}

func NewPools(hooks Hooks) *Pools {
	return &Pools{
		health: 100,
		mana:   50,
		fuel:   100,
		oxygen: 100,
		hooks:  hooks,
	}
}

// unbounded marks resources with no ceiling.
const unbounded = -1

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if max >= 0 && v > max {
		return max
	}
	return v
}

// AdjustHealth applies a signed delta, clamps to [0, MaxHealth], fires
// the damage/heal flash and pushes the new value to the room service
// through the hook.
func (p *Pools) AdjustHealth(delta int) int {
	p.mutex.Lock()
	p.health = clamp(p.health+delta, 0, MaxHealth)
	hp := p.health
	p.mutex.Unlock()

	if delta != 0 && p.hooks.Flash != nil {
		kind := FlashHeal
		if delta < 0 {
			kind = FlashDamage
		}
		p.hooks.Flash(kind)
	}
	if p.hooks.PushHealth != nil {
		p.hooks.PushHealth(hp)
	}
	return hp
}

func (p *Pools) AdjustMana(delta int) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.mana = clamp(p.mana+delta, 0, MaxMana)
	return p.mana
}

func (p *Pools) AdjustFuel(delta int) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.fuel = clamp(p.fuel+delta, 0, MaxFuel)
	return p.fuel
}

func (p *Pools) AdjustGold(delta int) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.gold = clamp(p.gold+delta, 0, unbounded)
	return p.gold
}

func (p *Pools) AdjustArmor(delta int) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.armor = clamp(p.armor+delta, 0, unbounded)
	return p.armor
}

func (p *Pools) AdjustOxygen(delta int) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.oxygen = clamp(p.oxygen+delta, 0, MaxOxygen)
	return p.oxygen
}

// SetFromCharacter overwrites health, mana and armor from a character's
// base values plus resolved perk bonuses. A full overwrite rather than
// a delta, so repeated day/night flips with the same inputs land on the
// same numbers.
func (p *Pools) SetFromCharacter(baseHealth, baseMana, baseArmor, bonusHealth, bonusMana, bonusArmor int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.health = clamp(baseHealth+bonusHealth, 0, MaxHealth)
	p.mana = clamp(baseMana+bonusMana, 0, MaxMana)
	p.armor = clamp(baseArmor+bonusArmor, 0, unbounded)
}

func (p *Pools) Health() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.health
}

func (p *Pools) Mana() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.mana
}

func (p *Pools) Fuel() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.fuel
}

func (p *Pools) Gold() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.gold
}

func (p *Pools) Armor() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.armor
}

func (p *Pools) Oxygen() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.oxygen
}

// Snapshot 当前资源快照
type Snapshot struct {
	Health int `json:"health"`
	Mana   int `json:"mana"`
	Fuel   int `json:"fuel"`
	Gold   int `json:"gold"`
	Armor  int `json:"armor"`
	Oxygen int `json:"oxygen"`
}

func (p *Pools) Snapshot() Snapshot {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return Snapshot{
		Health: p.health,
		Mana:   p.mana,
		Fuel:   p.fuel,
		Gold:   p.gold,
		Armor:  p.armor,
		Oxygen: p.oxygen,
	}
}
