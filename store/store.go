// store/store.go
package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wfunc/starvault/character"
	"github.com/wfunc/starvault/events"
	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/monitor"
	"github.com/wfunc/starvault/persistence"
	"github.com/wfunc/starvault/player"
	"github.com/wfunc/starvault/room"
	"github.com/wfunc/starvault/scan"
	"github.com/wfunc/starvault/services"
	"github.com/wfunc/starvault/vault"
)

// profileRow is the fixed key the single-seat client stores its
// profile under.
const profileRow = "local"

// Notifier is everything the store pushes out to attached UI surfaces.
// It widens room.Notifier with the store's own side channels.
type Notifier interface {
	room.Notifier
	Flash(kind string)
	OpenEvent(event models.GameEvent)
	Dock(event models.GameEvent)
	StateSync(state interface{})
}

// Store 游戏状态聚合
// Owns every piece of mutable player state: resource pools, the active
// character, the vault, the day/night flag, the event on screen and the
// room session. All mutations go through its methods; nothing here is a
// package-level singleton.
type Store struct {
	mutex sync.RWMutex

	profile models.Profile
	pools   *player.Pools
	char    *models.Character
	isNight bool

	currentEvent *models.GameEvent
	openedGlobal string // ID of the global encounter this player broadcast

	vault     *vault.Vault
	catalog   *events.Catalog
	session   *room.Session
	resolver  *scan.Resolver
	inventory services.InventoryAPI
	conn      *services.Connectivity
	db        persistence.Database
	notifier  Notifier
	mon       *monitor.Monitor
}

// Deps collects the collaborators main wires together.
type Deps struct {
	RoomAPI      services.RoomAPI
	InventoryAPI services.InventoryAPI
	Connectivity *services.Connectivity
	DB           persistence.Database
	Notifier     Notifier
	Monitor      *monitor.Monitor
	PollInterval time.Duration
	Profile      models.Profile // defaults applied when nothing is persisted yet
}

func New(deps Deps) *Store {
	s := &Store{
		profile:   deps.Profile,
		catalog:   events.NewCatalog(),
		inventory: deps.InventoryAPI,
		conn:      deps.Connectivity,
		db:        deps.DB,
		notifier:  deps.Notifier,
		mon:       deps.Monitor,
	}

	s.pools = player.NewPools(player.Hooks{
		Flash: func(kind player.FlashKind) {
			s.notifier.Flash(string(kind))
		},
		PushHealth: func(hp int) {
			s.session.PushHealth(hp)
		},
	})

	// The store itself is the room notifier so the poll diff can update
	// the on-screen event before the UI hears about it.
	s.session = room.NewSession(deps.RoomAPI, s, deps.Monitor, deps.PollInterval)
	s.session.SetCurrentEventFunc(s.currentEventID)

	s.rebuildVault()
	return s
}

// Restore loads the persisted profile and vault snapshot, typically
// once at startup.
func (s *Store) Restore() error {
	profile, err := s.db.LoadProfile(profileRow)
	if err != nil && err != persistence.ErrRecordNotFound {
		return fmt.Errorf("restore profile: %w", err)
	}
	if profile != nil {
		s.mutex.Lock()
		s.profile = *profile
		s.mutex.Unlock()
		s.rebuildVault()
	}

	if err := s.vault.Restore(); err != nil {
		return err
	}

	if id := s.Profile().CharacterID; id != "" {
		// Best effort: an unreachable service just means the character
		// re-activates on the next successful lookup.
		if err := s.ActivateCharacter(id); err != nil {
			logger.Log.Warnf("could not restore character %s: %v", id, err)
		}
	}
	return nil
}

// rebuildVault swaps the vault and resolver for the current identity.
func (s *Store) rebuildVault() {
	p := s.Profile()
	owner := p.Email
	if p.IsGuest() {
		owner = "guest"
	}

	s.mutex.Lock()
	s.vault = vault.New(owner, p.IsGuest(), s.db, s.inventory)
	s.resolver = scan.NewResolver(s.vault, s.catalog, s.inventory, s.conn, s, s.mon)
	s.mutex.Unlock()
}

// --- 档案 ---

func (s *Store) Profile() models.Profile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.profile
}

// UpdateProfile persists a changed profile and rebuilds identity-bound
// state when the remote identity moved.
func (s *Store) UpdateProfile(p models.Profile) error {
	s.mutex.Lock()
	identityChanged := s.profile.Email != p.Email
	s.profile = p
	s.mutex.Unlock()

	if err := s.db.SaveProfile(profileRow, p); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	if identityChanged {
		s.rebuildVault()
		if err := s.vault.Restore(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) saveProfile() {
	if err := s.db.SaveProfile(profileRow, s.Profile()); err != nil {
		logger.Log.Warnf("persist profile: %v", err)
	}
}

// --- scan.Gates ---

// TurnGateActive blocks gameplay scans while a started, non-solo room
// session is waiting on someone else's turn.
func (s *Store) TurnGateActive() bool {
	if s.Profile().SoloMode {
		return false
	}
	return s.session.InRoom() && s.session.Started() && !s.session.IsMyTurn()
}

func (s *Store) FuelEmpty() bool {
	return s.pools.Fuel() == 0
}

// --- 资源 ---

func (s *Store) Pools() *player.Pools {
	return s.pools
}

func (s *Store) AdjustHealth(delta int) int { return s.pools.AdjustHealth(delta) }
func (s *Store) AdjustMana(delta int) int   { return s.pools.AdjustMana(delta) }
func (s *Store) AdjustFuel(delta int) int   { return s.pools.AdjustFuel(delta) }
func (s *Store) AdjustGold(delta int) int   { return s.pools.AdjustGold(delta) }
func (s *Store) AdjustArmor(delta int) int  { return s.pools.AdjustArmor(delta) }
func (s *Store) AdjustOxygen(delta int) int { return s.pools.AdjustOxygen(delta) }

// --- 日夜与角色 ---

func (s *Store) IsNight() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isNight
}

// SetNight flips the day/night flag and re-applies the active
// character's perks. The pools are overwritten from base plus bonus,
// not nudged by a delta, so flipping twice lands on the same numbers.
func (s *Store) SetNight(isNight bool) {
	s.mutex.Lock()
	s.isNight = isNight
	char := s.char
	s.mutex.Unlock()

	if char != nil {
		s.applyCharacter(char, isNight)
	}
	s.notifier.StateSync(s.StateSnapshot())
}

// ActivateCharacter fetches a character template and makes it the
// session's active one. A failed lookup changes nothing.
func (s *Store) ActivateCharacter(id string) error {
	char, err := s.inventory.GetCharacter(id)
	if err != nil {
		s.notifier.Toast("not_found", "Character not found")
		return fmt.Errorf("character %s: %w", id, err)
	}

	s.mutex.Lock()
	s.char = char
	s.profile.CharacterID = char.ID
	s.profile.Class = char.Class
	isNight := s.isNight
	s.mutex.Unlock()

	s.applyCharacter(char, isNight)
	s.saveProfile()
	s.notifier.StateSync(s.StateSnapshot())
	return nil
}

func (s *Store) applyCharacter(char *models.Character, isNight bool) {
	bonuses := character.Resolve(char, isNight)
	s.pools.SetFromCharacter(
		char.BaseHealth, char.BaseMana, char.BaseArmor,
		bonuses.Get("health"), bonuses.Get("mana"), bonuses.Get("armor"),
	)
}

func (s *Store) Character() *models.Character {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.char == nil {
		return nil
	}
	c := *s.char
	return &c
}

// --- 扫码与事件 ---

func (s *Store) currentEventID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.currentEvent == nil {
		return ""
	}
	return s.currentEvent.ID
}

// CurrentEvent returns the adjusted event on screen, if any.
func (s *Store) CurrentEvent() *models.GameEvent {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.currentEvent == nil {
		return nil
	}
	e := *s.currentEvent
	return &e
}

// Scan resolves a scanned code and acts on the outcome.
func (s *Store) Scan(code string) {
	s.handleOutcome(s.resolver.Resolve(code, scan.OriginScan), scan.OriginScan)
}

// OpenCard opens an owned card from the vault; stations opened this
// way present like any other event instead of docking.
func (s *Store) OpenCard(cardID string) {
	s.handleOutcome(s.resolver.Resolve(cardID, scan.OriginVault), scan.OriginVault)
}

func (s *Store) handleOutcome(outcome scan.Outcome, origin scan.Origin) {
	switch outcome.Kind {
	case scan.OutcomeFriend:
		s.notifier.Toast("friend", "Friend request received")

	case scan.OutcomeCharacter:
		if err := s.ActivateCharacter(outcome.CharacterID); err != nil {
			logger.Log.Infof("character activation failed: %v", err)
		}

	case scan.OutcomeBlockedTurn:
		s.notifier.Toast("blocked", "Wait for your turn")

	case scan.OutcomeBlockedFuel:
		s.notifier.Toast("blocked", "Out of fuel")

	case scan.OutcomeNotFound:
		s.notifier.Toast("not_found", "Unknown code")

	case scan.OutcomeDock:
		adjusted := s.adjusted(outcome.Event)
		s.setCurrentEvent(&adjusted, false)
		s.notifier.Dock(adjusted)

	case scan.OutcomeEvent:
		// 扫到的道具卡收入收藏
		if origin == scan.OriginScan && outcome.Event.Kind == models.KindItem {
			if _, owned := s.Vault().Find(outcome.Event.ID); !owned {
				if err := s.Vault().Add(outcome.Event); err != nil {
					logger.Log.Warnf("collect card %s: %v", outcome.Event.ID, err)
				}
			}
		}
		s.presentEvent(outcome.Event)
	}
}

// presentEvent adjusts, shows and applies a resolved event, and
// broadcasts it to the room when it is global in scope.
func (s *Store) presentEvent(event models.GameEvent) {
	adjusted := s.adjusted(event)

	broadcast := adjusted.Global && s.session.InRoom()
	s.setCurrentEvent(&adjusted, broadcast)
	s.notifier.OpenEvent(adjusted)

	s.applyStatEffects(adjusted)

	if broadcast {
		if err := s.session.BroadcastEncounter(adjusted); err != nil {
			logger.Log.Warnf("broadcast encounter %s: %v", adjusted.ID, err)
		}
	}
}

func (s *Store) adjusted(event models.GameEvent) models.GameEvent {
	s.mutex.RLock()
	isNight := s.isNight
	class := s.profile.Class
	s.mutex.RUnlock()
	return events.Adjust(event, isNight, class)
}

func (s *Store) setCurrentEvent(event *models.GameEvent, openedGlobal bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.currentEvent = event
	if openedGlobal && event != nil {
		s.openedGlobal = event.ID
	}
}

// CloseEvent clears the event on screen. When the closer is the one
// who broadcast it, the global encounter is retracted for the room as
// well; other members closing it keep it live for everyone else.
func (s *Store) CloseEvent() {
	s.mutex.Lock()
	var closedID string
	if s.currentEvent != nil {
		closedID = s.currentEvent.ID
	}
	retract := closedID != "" && closedID == s.openedGlobal
	s.currentEvent = nil
	if retract {
		s.openedGlobal = ""
	}
	s.mutex.Unlock()

	if retract {
		s.session.RetractEncounter()
	}
}

// applyStatEffects applies the numeric resource lines of an event to
// the pools. Labels that are not resources ("ATK", "2d6" flavor rolls)
// are presentation only and skipped here.
func (s *Store) applyStatEffects(event models.GameEvent) {
	for _, stat := range event.Stats {
		delta, err := strconv.Atoi(stat.Value)
		if err != nil {
			continue
		}
		switch strings.ToLower(stat.Label) {
		case "hp", "health":
			s.pools.AdjustHealth(delta)
		case "mana":
			s.pools.AdjustMana(delta)
		case "fuel":
			s.pools.AdjustFuel(delta)
		case "gold":
			s.pools.AdjustGold(delta)
		case "armor":
			s.pools.AdjustArmor(delta)
		case "oxygen", "o2":
			s.pools.AdjustOxygen(delta)
		}
	}
}

// --- room.Notifier (forwarded to the UI after local bookkeeping) ---

func (s *Store) Toast(kind, text string) {
	s.notifier.Toast(kind, text)
}

func (s *Store) MissionStarted() {
	s.notifier.MissionStarted()
}

func (s *Store) YourTurn() {
	s.notifier.YourTurn()
}

// ForceOpen is invoked by the poll diff when another member broadcast
// an encounter; it overrides whatever is on screen.
func (s *Store) ForceOpen(event models.GameEvent) {
	adjusted := s.adjusted(event)
	s.setCurrentEvent(&adjusted, false)
	s.notifier.ForceOpen(adjusted)
}

func (s *Store) RoomChanged(snapshot *models.RoomSnapshot) {
	if snapshot == nil {
		// Left the room; a still-open global encounter stays open
		// locally but is no longer ours to retract.
		s.mutex.Lock()
		s.openedGlobal = ""
		s.mutex.Unlock()
	}
	s.notifier.RoomChanged(snapshot)
}

// --- 房间 ---

func (s *Store) Session() *room.Session {
	return s.session
}

func (s *Store) CreateRoom() error {
	p := s.Profile()
	if err := s.session.Create(p.Nickname); err != nil {
		return err
	}
	s.rememberRoom()
	return nil
}

func (s *Store) JoinRoom(roomID, password string) error {
	p := s.Profile()
	if err := s.session.Join(roomID, p.Nickname, password); err != nil {
		return err
	}
	s.rememberRoom()
	return nil
}

func (s *Store) rememberRoom() {
	snap := s.session.Snapshot()
	if snap == nil {
		return
	}
	s.mutex.Lock()
	s.profile.LastRoomID = snap.RoomID
	s.mutex.Unlock()
	s.saveProfile()
}

func (s *Store) LeaveRoom() {
	s.session.Leave()
}

// FocusRoomView fires the edge-triggered refresh when the player
// navigates to the room tab.
func (s *Store) FocusRoomView() {
	if s.session.InRoom() {
		s.session.RefreshNow()
	}
}

// --- 收藏与目录 ---

func (s *Store) Vault() *vault.Vault {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.vault
}

// RefreshCatalog replaces the cached master catalog from the remote
// service.
func (s *Store) RefreshCatalog() error {
	list, err := s.inventory.Catalog()
	if err != nil {
		return err
	}
	s.catalog.Replace(list)
	return nil
}

func (s *Store) Catalog() *events.Catalog {
	return s.catalog
}

// --- 汇总 ---

// StateSnapshot is the aggregate pushed to UI surfaces and the control
// RPC.
type StateSnapshot struct {
	Profile   models.Profile       `json:"profile"`
	Resources player.Snapshot      `json:"resources"`
	Character *models.Character    `json:"character,omitempty"`
	IsNight   bool                 `json:"is_night"`
	Event     *models.GameEvent    `json:"event,omitempty"`
	Phase     string               `json:"phase"`
	Room      *models.RoomSnapshot `json:"room,omitempty"`
	VaultSize int                  `json:"vault_size"`
}

func (s *Store) StateSnapshot() StateSnapshot {
	return StateSnapshot{
		Profile:   s.Profile(),
		Resources: s.pools.Snapshot(),
		Character: s.Character(),
		IsNight:   s.IsNight(),
		Event:     s.CurrentEvent(),
		Phase:     s.session.Phase(),
		Room:      s.session.Snapshot(),
		VaultSize: s.Vault().Len(),
	}
}
