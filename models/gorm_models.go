// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormCard 本地收藏快照行
// One row per owned card per owner; Payload is the full GameEvent JSON.
type GormCard struct {
	gorm.Model
	Owner    string    `gorm:"index:idx_cards_owner_card,unique;not null"`
	CardID   string    `gorm:"index:idx_cards_owner_card,unique;not null"`
	Position int       `gorm:"default:0"`
	Payload  GameEvent `gorm:"type:jsonb;serializer:json;not null"`
}

// GormProfile 玩家会话档案
type GormProfile struct {
	gorm.Model
	Owner string  `gorm:"uniqueIndex;not null"`
	Data  Profile `gorm:"type:jsonb;serializer:json;not null"`
}

// GormSetting 键值设置
// Catch-all for per-owner flags that have no structured home (sound,
// vibration, last room).
type GormSetting struct {
	gorm.Model
	Owner string `gorm:"index:idx_settings_owner_key,unique;not null"`
	Key   string `gorm:"index:idx_settings_owner_key,unique;not null"`
	Value string `gorm:"not null"`
}
