// models/models.go
package models

import (
	"strings"
	"time"
)

// EventKind 事件类型标签
type EventKind string

const (
	KindItem      EventKind = "item"
	KindEncounter EventKind = "encounter"
	KindDilemma   EventKind = "dilemma"
	KindMerchant  EventKind = "merchant"
	KindStation   EventKind = "station"
	KindPlanet    EventKind = "planet"
)

// StatPair is one labelled stat line on a card. Values stay strings on
// the wire ("-20", "2d6", "??") and are parsed only where a number is
// actually needed.
type StatPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// NightVariant overrides presentation fields after dark. Zero-value
// fields are treated as absent and fall through to the base card.
type NightVariant struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Kind        EventKind  `json:"kind,omitempty"`
	Stats       []StatPair `json:"stats,omitempty"`
}

// ClassVariant overrides presentation for one player class. BonusStats
// are appended to the card's stat list, never substituted.
type ClassVariant struct {
	Class       string     `json:"class"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Kind        EventKind  `json:"kind,omitempty"`
	BonusStats  []StatPair `json:"bonus_stats,omitempty"`
}

// MerchantConfig 商人配置
type MerchantConfig struct {
	Stock  []GameEvent `json:"stock"`
	Markup int         `json:"markup"`
}

// StationService is one purchasable service at a station (refuel,
// repair, infirmary...).
type StationService struct {
	Name string `json:"name"`
	Stat string `json:"stat"`
	Cost int    `json:"cost"`
}

// StationConfig 空间站配置
type StationConfig struct {
	DockingFee int              `json:"docking_fee"`
	Services   []StationService `json:"services"`
}

// PlanetPhase is one step of a planet exploration sequence.
type PlanetPhase struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Stats       []StatPair `json:"stats,omitempty"`
}

// PlanetConfig 星球配置
type PlanetConfig struct {
	Phases []PlanetPhase `json:"phases"`
}

// GameEvent is the universal card entity: items, encounters, dilemmas,
// merchants, stations and planets all share this shape. Exactly one of
// the kind-specific config blocks may be set, and only the one matching
// Kind is ever read; the accessors below enforce that.
type GameEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        EventKind  `json:"kind"`
	Rarity      string     `json:"rarity,omitempty"`
	Global      bool       `json:"global,omitempty"`
	Stats       []StatPair `json:"stats,omitempty"`

	Night   *NightVariant  `json:"night,omitempty"`
	Classes []ClassVariant `json:"classes,omitempty"`

	MerchantCfg *MerchantConfig `json:"merchant,omitempty"`
	StationCfg  *StationConfig  `json:"station,omitempty"`
	PlanetCfg   *PlanetConfig   `json:"planet,omitempty"`
}

// Merchant returns the merchant block only when the card actually is a
// merchant.
func (e *GameEvent) Merchant() (*MerchantConfig, bool) {
	if e.Kind == KindMerchant && e.MerchantCfg != nil {
		return e.MerchantCfg, true
	}
	return nil, false
}

func (e *GameEvent) Station() (*StationConfig, bool) {
	if e.Kind == KindStation && e.StationCfg != nil {
		return e.StationCfg, true
	}
	return nil, false
}

func (e *GameEvent) Planet() (*PlanetConfig, bool) {
	if e.Kind == KindPlanet && e.PlanetCfg != nil {
		return e.PlanetCfg, true
	}
	return nil, false
}

// BaseID strips the print-run suffix from a card identifier. Physical
// cards carry IDs like "nebula_raider__a3"; everything after the "__"
// separator identifies the copy, not the card.
func BaseID(id string) string {
	if i := strings.Index(id, "__"); i >= 0 {
		return id[:i]
	}
	return id
}

// PerkTrigger 触发条件
type PerkTrigger string

const (
	TriggerAlways PerkTrigger = "always"
	TriggerDay    PerkTrigger = "day"
	TriggerNight  PerkTrigger = "night"
	TriggerCombat PerkTrigger = "combat"
)

// PerkEffect is a single stat modifier. IsPercentage is carried on the
// wire but aggregated the same as a flat modifier; see character.Resolve.
type PerkEffect struct {
	Stat         string `json:"stat"`
	Modifier     int    `json:"modifier"`
	IsPercentage bool   `json:"is_percentage"`
}

type Perk struct {
	Name    string      `json:"name"`
	Trigger PerkTrigger `json:"trigger"`
	Effect  PerkEffect  `json:"effect"`
}

// Character 角色模板
type Character struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Class      string `json:"class"`
	BaseHealth int    `json:"base_health"`
	BaseMana   int    `json:"base_mana"`
	BaseArmor  int    `json:"base_armor"`
	Perks      []Perk `json:"perks"`
}

// Member is one player inside a room snapshot.
type Member struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	HP    int    `json:"hp"`
	Ready bool   `json:"ready"`
}

// TradeStatus values mirror the room service.
type TradeStatus string

const (
	TradeOpen      TradeStatus = "open"
	TradeCompleted TradeStatus = "completed"
	TradeCancelled TradeStatus = "cancelled"
)

// Trade is a transient two-party exchange proposal.
type Trade struct {
	ID            string      `json:"id"`
	FromName      string      `json:"from_name"`
	ToName        string      `json:"to_name"`
	FromItem      *GameEvent  `json:"from_item,omitempty"`
	ToItem        *GameEvent  `json:"to_item,omitempty"`
	FromConfirmed bool        `json:"from_confirmed"`
	ToConfirmed   bool        `json:"to_confirmed"`
	Status        TradeStatus `json:"status"`
}

// Involves reports whether the given nickname is a party to the trade.
func (t *Trade) Involves(name string) bool {
	return t.FromName == name || t.ToName == name
}

type ChatMessage struct {
	ID     string    `json:"id"`
	Sender string    `json:"sender"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// RoomSnapshot is the poll payload from the room service. The client
// treats it as authoritative and replaces its cached copy wholesale.
type RoomSnapshot struct {
	RoomID          string     `json:"room_id"`
	Host            string     `json:"host"`
	Members         []Member   `json:"members"`
	TurnOrder       []string   `json:"turn_order"`
	TurnIndex       int        `json:"turn_index"`
	Round           int        `json:"round"`
	Started         bool       `json:"started"`
	ActiveEncounter *GameEvent `json:"active_encounter,omitempty"`
	Trades          []Trade    `json:"trades,omitempty"`
}

// CurrentPlayer resolves turnOrder[turnIndex]; ok is false when the
// order is empty or the index is out of range.
func (s *RoomSnapshot) CurrentPlayer() (string, bool) {
	if len(s.TurnOrder) == 0 || s.TurnIndex < 0 || s.TurnIndex >= len(s.TurnOrder) {
		return "", false
	}
	return s.TurnOrder[s.TurnIndex], true
}

// HasMember reports whether a nickname appears in the membership list.
func (s *RoomSnapshot) HasMember(name string) bool {
	for _, m := range s.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Profile is the locally persisted session identity.
type Profile struct {
	Nickname    string `json:"nickname"`
	Email       string `json:"email,omitempty"`
	Class       string `json:"class,omitempty"`
	CharacterID string `json:"character_id,omitempty"`
	SoloMode    bool   `json:"solo_mode"`
	LastRoomID  string `json:"last_room_id,omitempty"`
	Sound       bool   `json:"sound"`
	Vibration   bool   `json:"vibration"`
}

// IsGuest reports whether the profile has no remote identity; guest
// vaults live only in the local store.
func (p *Profile) IsGuest() bool {
	return p.Email == ""
}
