package player

import (
	"testing"
)

func TestPools_Defaults(t *testing.T) {
	p := NewPools(Hooks{})

	if p.Health() != 100 {
		t.Errorf("Expected starting health 100, got %d", p.Health())
	}
	if p.Mana() != 50 {
		t.Errorf("Expected starting mana 50, got %d", p.Mana())
	}
	if p.Fuel() != 100 {
		t.Errorf("Expected starting fuel 100, got %d", p.Fuel())
	}
	if p.Gold() != 0 {
		t.Errorf("Expected starting gold 0, got %d", p.Gold())
	}
	if p.Oxygen() != 100 {
		t.Errorf("Expected starting oxygen 100, got %d", p.Oxygen())
	}
}

func TestPools_HealthClamping(t *testing.T) {
	p := NewPools(Hooks{})

	if got := p.AdjustHealth(-999); got != 0 {
		t.Errorf("Expected health floor 0, got %d", got)
	}
	if got := p.AdjustHealth(999); got != MaxHealth {
		t.Errorf("Expected health ceiling %d, got %d", MaxHealth, got)
	}
	// Overheal past 100 is allowed up to the ceiling.
	p = NewPools(Hooks{})
	if got := p.AdjustHealth(30); got != 130 {
		t.Errorf("Expected overheal to 130, got %d", got)
	}
}

func TestPools_GoldAndArmorUnbounded(t *testing.T) {
	p := NewPools(Hooks{})

	if got := p.AdjustGold(100000); got != 100000 {
		t.Errorf("Expected gold 100000, got %d", got)
	}
	if got := p.AdjustGold(-999999); got != 0 {
		t.Errorf("Expected gold floor 0, got %d", got)
	}
	if got := p.AdjustArmor(500); got != 500 {
		t.Errorf("Expected armor 500, got %d", got)
	}
}

func TestPools_HealthFlashKinds(t *testing.T) {
	var flashes []FlashKind
	p := NewPools(Hooks{
		Flash: func(kind FlashKind) { flashes = append(flashes, kind) },
	})

	p.AdjustHealth(-20)
	p.AdjustHealth(10)
	p.AdjustHealth(0)

	if len(flashes) != 2 {
		t.Fatalf("Expected 2 flashes, got %d", len(flashes))
	}
	if flashes[0] != FlashDamage {
		t.Errorf("Expected damage flash first, got %s", flashes[0])
	}
	if flashes[1] != FlashHeal {
		t.Errorf("Expected heal flash second, got %s", flashes[1])
	}
}

func TestPools_HealthPushCarriesClampedValue(t *testing.T) {
	var pushed []int
	p := NewPools(Hooks{
		PushHealth: func(hp int) { pushed = append(pushed, hp) },
	})

	p.AdjustHealth(-150)

	if len(pushed) != 1 {
		t.Fatalf("Expected 1 health push, got %d", len(pushed))
	}
	if pushed[0] != 0 {
		t.Errorf("Expected clamped health 0 pushed, got %d", pushed[0])
	}
}

func TestPools_SetFromCharacterIdempotent(t *testing.T) {
	p := NewPools(Hooks{})
	p.AdjustHealth(-50)
	p.AdjustMana(20)

	p.SetFromCharacter(80, 60, 10, 5, 0, 3)
	first := p.Snapshot()

	p.SetFromCharacter(80, 60, 10, 5, 0, 3)
	second := p.Snapshot()

	if first != second {
		t.Errorf("Expected identical snapshots after repeated overwrite, got %+v then %+v", first, second)
	}
	if first.Health != 85 {
		t.Errorf("Expected health 85, got %d", first.Health)
	}
	if first.Mana != 60 {
		t.Errorf("Expected mana 60, got %d", first.Mana)
	}
	if first.Armor != 13 {
		t.Errorf("Expected armor 13, got %d", first.Armor)
	}
}

func TestPools_SetFromCharacterClampsCeiling(t *testing.T) {
	p := NewPools(Hooks{})
	p.SetFromCharacter(140, 90, 0, 50, 50, 0)

	if p.Health() != MaxHealth {
		t.Errorf("Expected health clamped to %d, got %d", MaxHealth, p.Health())
	}
	if p.Mana() != MaxMana {
		t.Errorf("Expected mana clamped to %d, got %d", MaxMana, p.Mana())
	}
}
