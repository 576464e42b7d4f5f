// character/perks.go
package character

import (
	"github.com/wfunc/starvault/models"
)

// Bonuses 按属性累计的加成
type Bonuses map[string]int

// Get returns the accumulated bonus for a stat, zero when none.
func (b Bonuses) Get(stat string) int {
	return b[stat]
}

// Resolve computes the aggregate stat bonuses granted by a character's
// perks for the given day/night flag. Pure: same inputs, same totals.
//
// "always" perks are included unconditionally; "day"/"night" perks only
// when the flag matches; "combat" perks only resolve inside combat and
// never contribute here. Percentage-flagged modifiers are summed as raw
// numbers into the same accumulator as flat ones — the room service
// does the same, so changing it client-side would desync character
// sheets between players.
func Resolve(c *models.Character, isNight bool) Bonuses {
	bonuses := make(Bonuses)
	if c == nil {
		return bonuses
	}

	for _, perk := range c.Perks {
		if !active(perk.Trigger, isNight) {
			continue
		}
		bonuses[perk.Effect.Stat] += perk.Effect.Modifier
	}
	return bonuses
}

func active(trigger models.PerkTrigger, isNight bool) bool {
	switch trigger {
	case models.TriggerAlways:
		return true
	case models.TriggerDay:
		return !isNight
	case models.TriggerNight:
		return isNight
	default:
		// combat and anything unknown
		return false
	}
}
