// scan/resolver.go
package scan

import (
	"strings"

	"github.com/wfunc/starvault/events"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/monitor"
	"github.com/wfunc/starvault/services"
	"github.com/wfunc/starvault/vault"
)

// Code prefixes that bypass gameplay gates: friend-request codes are
// social, character codes swap the active template; neither resolves
// as a card.
const (
	FriendPrefix    = "friend__"
	CharacterPrefix = "char__"
)

// Origin says where a resolution request came from; a station scanned
// off a physical card starts a docking sequence, the same card opened
// from the vault does not.
type Origin int

const (
	OriginScan Origin = iota
	OriginVault
)

// OutcomeKind 解析结果类别
type OutcomeKind string

const (
	OutcomeEvent       OutcomeKind = "event"
	OutcomeDock        OutcomeKind = "dock"
	OutcomeFriend      OutcomeKind = "friend"
	OutcomeCharacter   OutcomeKind = "character"
	OutcomeBlockedTurn OutcomeKind = "blocked_turn"
	OutcomeBlockedFuel OutcomeKind = "blocked_fuel"
	OutcomeNotFound    OutcomeKind = "not_found"
)

// Outcome is the result of one resolution attempt. Event is set for
// the event/dock kinds; CharacterID for the character kind; FriendCode
// for the friend kind.
type Outcome struct {
	Kind        OutcomeKind
	Event       models.GameEvent
	CharacterID string
	FriendCode  string
}

// Gates are the pre-resolution checks the store supplies: acting out
// of turn and running dry both block a scan before any lookup happens.
type Gates interface {
	TurnGateActive() bool
	FuelEmpty() bool
}

// Resolver 扫码解析器
// Resolves a scanned code through an ordered fallback chain: local
// vault (exact or base-ID match), cached master catalog (exact), then
// a remote lookup that is skipped outright while offline.
type Resolver struct {
	vault   *vault.Vault
	catalog *events.Catalog
	remote  services.InventoryAPI
	conn    *services.Connectivity
	gates   Gates
	mon     *monitor.Monitor
}

func NewResolver(v *vault.Vault, c *events.Catalog, remote services.InventoryAPI, conn *services.Connectivity, gates Gates, mon *monitor.Monitor) *Resolver {
	return &Resolver{
		vault:   v,
		catalog: c,
		remote:  remote,
		conn:    conn,
		gates:   gates,
		mon:     mon,
	}
}

// Resolve maps a code to an outcome. Blocking gates run first and
// short-circuit; friend and character codes bypass them.
func (r *Resolver) Resolve(code string, origin Origin) Outcome {
	code = strings.TrimSpace(code)

	if strings.HasPrefix(code, FriendPrefix) {
		r.mon.IncScan(string(OutcomeFriend))
		return Outcome{Kind: OutcomeFriend, FriendCode: strings.TrimPrefix(code, FriendPrefix)}
	}
	if strings.HasPrefix(code, CharacterPrefix) {
		r.mon.IncScan(string(OutcomeCharacter))
		return Outcome{Kind: OutcomeCharacter, CharacterID: strings.TrimPrefix(code, CharacterPrefix)}
	}

	if r.gates.TurnGateActive() {
		r.mon.IncScan(string(OutcomeBlockedTurn))
		return Outcome{Kind: OutcomeBlockedTurn}
	}
	if r.gates.FuelEmpty() {
		r.mon.IncScan(string(OutcomeBlockedFuel))
		return Outcome{Kind: OutcomeBlockedFuel}
	}

	event, ok := r.lookup(code)
	if !ok {
		r.mon.IncScan(string(OutcomeNotFound))
		return Outcome{Kind: OutcomeNotFound}
	}

	if event.Kind == models.KindStation && origin == OriginScan {
		r.mon.IncScan(string(OutcomeDock))
		return Outcome{Kind: OutcomeDock, Event: event}
	}

	r.mon.IncScan(string(OutcomeEvent))
	return Outcome{Kind: OutcomeEvent, Event: event}
}

// lookup walks the fallback chain, stopping at the first hit.
func (r *Resolver) lookup(code string) (models.GameEvent, bool) {
	if event, ok := r.vault.Find(code); ok {
		return event, true
	}
	if event, ok := r.catalog.Find(code); ok {
		return event, true
	}
	if r.conn.Online() {
		if event, err := r.remote.Lookup(code); err == nil && event != nil {
			return *event, true
		}
	}
	return models.GameEvent{}, false
}
