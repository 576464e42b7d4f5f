// events/adjust.go
package events

import (
	"github.com/wfunc/starvault/models"
)

// Adjust derives the effective presentation of a card for the given
// day/night flag and player class. The input is never mutated; callers
// get a shallow-overridden copy.
//
// Order matters: the night variant applies first and may replace the
// stat list outright; the class variant applies second and appends its
// bonus stats to whatever the night step produced.
func Adjust(e models.GameEvent, isNight bool, playerClass string) models.GameEvent {
	out := e
	out.Stats = append([]models.StatPair(nil), e.Stats...)

	if isNight && e.Night != nil {
		v := e.Night
		if v.Title != "" {
			out.Title = v.Title
		}
		if v.Description != "" {
			out.Description = v.Description
		}
		if v.Kind != "" {
			out.Kind = v.Kind
		}
		if v.Stats != nil {
			out.Stats = append([]models.StatPair(nil), v.Stats...)
		}
	}

	if playerClass != "" {
		if v, ok := classVariant(e.Classes, playerClass); ok {
			if v.Title != "" {
				out.Title = v.Title
			}
			if v.Description != "" {
				out.Description = v.Description
			}
			if v.Kind != "" {
				out.Kind = v.Kind
			}
			// Re-adjusting an already adjusted card must not stack the
			// class bonus a second time.
			if len(v.BonusStats) > 0 && !hasSuffix(out.Stats, v.BonusStats) {
				out.Stats = append(out.Stats, v.BonusStats...)
			}
		}
	}

	return out
}

func classVariant(variants []models.ClassVariant, class string) (models.ClassVariant, bool) {
	for _, v := range variants {
		if v.Class == class {
			return v, true
		}
	}
	return models.ClassVariant{}, false
}

func hasSuffix(stats, tail []models.StatPair) bool {
	if len(tail) > len(stats) {
		return false
	}
	off := len(stats) - len(tail)
	for i := range tail {
		if stats[off+i] != tail[i] {
			return false
		}
	}
	return true
}
