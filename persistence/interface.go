// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/starvault/models"
)

// Database 本地持久化接口
// The durable local store behind the vault and profile caches. Writes
// happen synchronously on every optimistic mutation, so implementations
// should keep single-row operations cheap.
type Database interface {
	SaveCard(owner string, card models.GameEvent, position int) error
	DeleteCard(owner, cardID string) error
	// ReplaceCards swaps the whole snapshot for one owner, used when a
	// remote full-refresh corrects local drift.
	ReplaceCards(owner string, cards []models.GameEvent) error
	LoadCards(owner string) ([]models.GameEvent, error)

	SaveProfile(owner string, p models.Profile) error
	LoadProfile(owner string) (*models.Profile, error)

	SetSetting(owner, key, value string) error
	GetSetting(owner, key string) (string, error)

	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
