// events/catalog.go
package events

import (
	"sync"

	"github.com/wfunc/starvault/models"
)

// Catalog 主卡牌目录缓存
// In-memory copy of the shared master catalog, replaced wholesale on
// each fetch. Lookups are by exact ID only; fuzzy matching is a vault
// concern.
type Catalog struct {
	mutex sync.RWMutex
	byID  map[string]models.GameEvent
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID: make(map[string]models.GameEvent),
	}
}

// Replace swaps the cached catalog for the given list.
func (c *Catalog) Replace(list []models.GameEvent) {
	byID := make(map[string]models.GameEvent, len(list))
	for _, e := range list {
		byID[e.ID] = e
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.byID = byID
}

// Find returns the catalog entry with the exact given ID.
func (c *Catalog) Find(id string) (models.GameEvent, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	e, ok := c.byID[id]
	return e, ok
}

// Len reports the number of cached entries.
func (c *Catalog) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.byID)
}
