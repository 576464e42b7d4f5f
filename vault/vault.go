// vault/vault.go
package vault

import (
	"fmt"
	"sync"

	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/persistence"
	"github.com/wfunc/starvault/services"
)

// Vault 玩家卡牌收藏
// The ordered collection of cards one identity owns. Mutations apply to
// the in-memory cache and the durable local store synchronously, then
// mirror to the remote inventory service on a fire-and-forget basis;
// guest identities never touch the remote side. Refresh replaces the
// cache wholesale with the remote list to correct drift.
type Vault struct {
	mutex  sync.RWMutex
	owner  string
	guest  bool
	cards  []models.GameEvent
	db     persistence.Database
	remote services.InventoryAPI
}

func New(owner string, guest bool, db persistence.Database, remote services.InventoryAPI) *Vault {
	return &Vault{
		owner:  owner,
		guest:  guest,
		db:     db,
		remote: remote,
	}
}

// Restore loads the locally persisted snapshot, typically once at
// startup before any remote traffic.
func (v *Vault) Restore() error {
	cards, err := v.db.LoadCards(v.owner)
	if err != nil {
		return fmt.Errorf("restore vault for %s: %w", v.owner, err)
	}

	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.cards = cards
	return nil
}

// Cards returns a copy of the current snapshot.
func (v *Vault) Cards() []models.GameEvent {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return append([]models.GameEvent(nil), v.cards...)
}

func (v *Vault) Len() int {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return len(v.cards)
}

// Find resolves a scanned code against the cache: exact ID match first,
// then a base-ID match so any print run of an owned card resolves.
func (v *Vault) Find(code string) (models.GameEvent, bool) {
	v.mutex.RLock()
	defer v.mutex.RUnlock()

	for _, c := range v.cards {
		if c.ID == code {
			return c, true
		}
	}
	base := models.BaseID(code)
	for _, c := range v.cards {
		if models.BaseID(c.ID) == base {
			return c, true
		}
	}
	return models.GameEvent{}, false
}

// Add appends (or overwrites in place) a card, persists locally and
// mirrors remotely.
func (v *Vault) Add(card models.GameEvent) error {
	v.mutex.Lock()
	position := -1
	for i, c := range v.cards {
		if c.ID == card.ID {
			v.cards[i] = card
			position = i
			break
		}
	}
	if position < 0 {
		v.cards = append(v.cards, card)
		position = len(v.cards) - 1
	}
	v.mutex.Unlock()

	if err := v.db.SaveCard(v.owner, card, position); err != nil {
		return fmt.Errorf("persist card %s: %w", card.ID, err)
	}

	v.mirror(func() error { return v.remote.Upsert(v.owner, card) })
	return nil
}

// Remove deletes a card by ID. Removing an unknown ID is a no-op.
func (v *Vault) Remove(cardID string) error {
	v.mutex.Lock()
	for i, c := range v.cards {
		if c.ID == cardID {
			v.cards = append(v.cards[:i], v.cards[i+1:]...)
			break
		}
	}
	v.mutex.Unlock()

	if err := v.db.DeleteCard(v.owner, cardID); err != nil {
		return fmt.Errorf("delete card %s: %w", cardID, err)
	}

	v.mirror(func() error { return v.remote.Delete(v.owner, cardID) })
	return nil
}

// Refresh discards the optimistic cache and replaces it with the
// remote service's authoritative list. Not run on a timer; callers use
// it to recover from drift. Guests have nothing to refresh from.
func (v *Vault) Refresh() error {
	if v.guest {
		return nil
	}

	cards, err := v.remote.Fetch(v.owner)
	if err != nil {
		return err
	}

	v.mutex.Lock()
	v.cards = cards
	v.mutex.Unlock()

	if err := v.db.ReplaceCards(v.owner, cards); err != nil {
		return fmt.Errorf("persist refreshed vault: %w", err)
	}
	return nil
}

// mirror runs a remote write in the background. Failures are logged
// and dropped: the local copy is already authoritative for this
// session and the next full refresh corrects the remote side.
func (v *Vault) mirror(fn func() error) {
	if v.guest {
		return
	}
	go func() {
		if err := fn(); err != nil {
			logger.Log.Warnf("vault mirror for %s failed: %v", v.owner, err)
		}
	}()
}
