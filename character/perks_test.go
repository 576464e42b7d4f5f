package character

import (
	"testing"

	"github.com/wfunc/starvault/models"
)

func testCharacter() *models.Character {
	return &models.Character{
		ID:    "char__navigator",
		Name:  "Navigator",
		Class: "pilot",
		Perks: []models.Perk{
			{
				Name:    "Steady Hands",
				Trigger: models.TriggerAlways,
				Effect:  models.PerkEffect{Stat: "health", Modifier: 10},
			},
			{
				Name:    "Sun Reader",
				Trigger: models.TriggerDay,
				Effect:  models.PerkEffect{Stat: "mana", Modifier: 5},
			},
			{
				Name:    "Night Eyes",
				Trigger: models.TriggerNight,
				Effect:  models.PerkEffect{Stat: "mana", Modifier: 15},
			},
			{
				Name:    "Adrenaline",
				Trigger: models.TriggerCombat,
				Effect:  models.PerkEffect{Stat: "armor", Modifier: 50},
			},
		},
	}
}

func TestResolve_Day(t *testing.T) {
	b := Resolve(testCharacter(), false)

	if b.Get("health") != 10 {
		t.Errorf("Expected health bonus 10, got %d", b.Get("health"))
	}
	if b.Get("mana") != 5 {
		t.Errorf("Expected day mana bonus 5, got %d", b.Get("mana"))
	}
	if b.Get("armor") != 0 {
		t.Errorf("Combat perk must not contribute, got armor %d", b.Get("armor"))
	}
}

func TestResolve_Night(t *testing.T) {
	b := Resolve(testCharacter(), true)

	if b.Get("mana") != 15 {
		t.Errorf("Expected night mana bonus 15, got %d", b.Get("mana"))
	}
	if b.Get("health") != 10 {
		t.Errorf("Always perk must persist at night, got %d", b.Get("health"))
	}
}

func TestResolve_Pure(t *testing.T) {
	c := testCharacter()
	first := Resolve(c, true)
	second := Resolve(c, true)

	if len(first) != len(second) {
		t.Fatalf("Expected identical results, got %v and %v", first, second)
	}
	for stat, v := range first {
		if second[stat] != v {
			t.Errorf("Stat %s differs: %d vs %d", stat, v, second[stat])
		}
	}
}

// Percentage modifiers are summed raw alongside flat ones, matching the
// room service's character sheets.
func TestResolve_PercentageSummedRaw(t *testing.T) {
	c := &models.Character{
		Perks: []models.Perk{
			{Trigger: models.TriggerAlways, Effect: models.PerkEffect{Stat: "health", Modifier: 10}},
			{Trigger: models.TriggerAlways, Effect: models.PerkEffect{Stat: "health", Modifier: 20, IsPercentage: true}},
		},
	}

	if got := Resolve(c, false).Get("health"); got != 30 {
		t.Errorf("Expected raw sum 30, got %d", got)
	}
}

func TestResolve_NilCharacter(t *testing.T) {
	b := Resolve(nil, false)
	if len(b) != 0 {
		t.Errorf("Expected empty bonuses for nil character, got %v", b)
	}
}
