// room/session.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/monitor"
	"github.com/wfunc/starvault/services"
	"github.com/wfunc/starvault/state"
)

// Session 多人房间会话
// The client-side half of one multiplayer room: a read-mostly cached
// snapshot refreshed by a fixed-interval poll loop, plus a handful of
// optimistic writes (ready toggle, kick) applied before the service
// confirms them.
//
// Every poll response carries a monotonically increasing sequence
// number assigned when the request goes out; a response that would
// apply out of order is discarded so an overlapping focus refresh
// cannot overwrite newer state with older.
type Session struct {
	mutex    sync.RWMutex
	api      services.RoomAPI
	notifier Notifier
	mon      *monitor.Monitor

	nickname     string
	roomID       string
	machine      state.Machine
	snapshot     *models.RoomSnapshot
	messages     []models.ChatMessage
	myTrade      *models.Trade
	currentEvent CurrentEventFunc

	// one-shot latches, cleared on leave
	startedNotified bool
	turnNotified    bool
	lastTurnIndex   int

	pollSeq    uint64
	appliedSeq uint64

	pollInterval time.Duration
	ticker       *time.Ticker
	closeChan    chan bool
}

func NewSession(api services.RoomAPI, notifier Notifier, mon *monitor.Monitor, pollInterval time.Duration) *Session {
	s := &Session{
		api:           api,
		notifier:      notifier,
		mon:           mon,
		pollInterval:  pollInterval,
		lastTurnIndex: -1,
		currentEvent:  func() string { return "" },
	}
	s.machine = state.NewBaseMachine(state.NewIdlePhase(s))
	return s
}

// SetCurrentEventFunc wires the owning store's "what is on screen"
// accessor. Must be called before the first poll.
func (s *Session) SetCurrentEventFunc(fn CurrentEventFunc) {
	if fn != nil {
		s.currentEvent = fn
	}
}

// --- state.SessionContext 接口 ---

func (s *Session) RoomID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID
}

func (s *Session) Nickname() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.nickname
}

// --- 进出房间 ---

// Create asks the service for a fresh room and enters it as host.
func (s *Session) Create(nickname string) error {
	return s.enter(nickname, func() (*models.RoomSnapshot, error) {
		return s.api.CreateRoom(nickname)
	})
}

// Join enters an existing room, optionally with a password.
func (s *Session) Join(roomID, nickname, password string) error {
	return s.enter(nickname, func() (*models.RoomSnapshot, error) {
		return s.api.JoinRoom(roomID, nickname, password)
	})
}

func (s *Session) enter(nickname string, call func() (*models.RoomSnapshot, error)) error {
	s.mutex.Lock()
	if s.roomID != "" {
		s.mutex.Unlock()
		return errors.New("already in a room")
	}
	s.nickname = nickname
	s.mutex.Unlock()

	if err := s.machine.ChangePhase(state.NewJoiningPhase(s)); err != nil {
		return err
	}

	snap, err := call()
	if err != nil {
		s.machine.ChangePhase(state.NewIdlePhase(s))
		return err
	}

	s.mutex.Lock()
	s.roomID = snap.RoomID
	s.snapshot = snap
	s.appliedSeq = 1
	s.pollSeq = 1
	s.lastTurnIndex = snap.TurnIndex
	s.mutex.Unlock()

	if err := s.machine.ChangePhase(state.NewLobbyPhase(s)); err != nil {
		return err
	}

	s.startLoop()
	s.notifier.RoomChanged(snap)
	return nil
}

// Leave exits the room explicitly. The remote call is best-effort;
// local state resets regardless.
func (s *Session) Leave() {
	s.leave(true)
}

func (s *Session) startLoop() {
	ticker := time.NewTicker(s.pollInterval)
	closeChan := make(chan bool)
	s.mutex.Lock()
	s.ticker = ticker
	s.closeChan = closeChan
	s.mutex.Unlock()
	go s.loop(ticker, closeChan)
}

// loop 是会话的主循环，定时拉取房间状态
func (s *Session) loop(ticker *time.Ticker, closeChan chan bool) {
	for {
		select {
		case <-ticker.C:
			s.Poll()
		case <-closeChan:
			ticker.Stop()
			return
		}
	}
}

// Poll performs one status+messages fetch and applies the result. A
// tick that fails is logged and skipped; the next tick retries with no
// backoff. A room-gone response forces a local leave instead.
func (s *Session) Poll() {
	s.mutex.Lock()
	if s.roomID == "" {
		s.mutex.Unlock()
		return
	}
	roomID := s.roomID
	s.pollSeq++
	seq := s.pollSeq
	s.mutex.Unlock()

	s.mon.IncPollTick()

	snap, err := s.api.Status(roomID)
	if err != nil {
		if errors.Is(err, services.ErrRoomGone) {
			logger.Log.Infof("room %s is gone, leaving", roomID)
			s.leave(false)
			return
		}
		s.mon.IncPollFailure()
		logger.Log.Debugf("poll tick failed for room %s: %v", roomID, err)
		return
	}

	msgs, err := s.api.Messages(roomID)
	if err != nil {
		// Keep the snapshot anyway; the message log catches up next tick.
		logger.Log.Debugf("message fetch failed for room %s: %v", roomID, err)
	}

	s.apply(seq, snap, msgs)
}

// RefreshNow is the edge-triggered refresh fired when the player
// navigates back to the room view. Same path as the timer poll, so the
// sequence guard decides whichever response lands last.
func (s *Session) RefreshNow() {
	go s.Poll()
}

// apply merges one fetched snapshot into local state and runs the diff
// detection against the previously held one.
func (s *Session) apply(seq uint64, snap *models.RoomSnapshot, msgs []models.ChatMessage) {
	s.mutex.Lock()

	if s.roomID == "" {
		// Torn down while the request was in flight.
		s.mutex.Unlock()
		return
	}
	if seq <= s.appliedSeq {
		s.mutex.Unlock()
		s.mon.IncStaleDiscarded()
		logger.Log.Debugf("discarded stale poll response (seq %d <= %d)", seq, s.appliedSeq)
		return
	}

	prev := s.snapshot
	s.snapshot = snap
	if msgs != nil {
		s.messages = msgs
	}
	s.appliedSeq = seq

	kicked := prev != nil && prev.HasMember(s.nickname) && !snap.HasMember(s.nickname)

	started := false
	if snap.Started && !s.startedNotified {
		s.startedNotified = true
		started = true
	}

	yourTurn := false
	if snap.TurnIndex != s.lastTurnIndex {
		s.lastTurnIndex = snap.TurnIndex
		s.turnNotified = false
	}
	if current, ok := snap.CurrentPlayer(); ok && current == s.nickname && !s.turnNotified {
		s.turnNotified = true
		yourTurn = true
	}

	var forced *models.GameEvent
	if snap.ActiveEncounter != nil && snap.ActiveEncounter.ID != s.currentEvent() {
		forced = snap.ActiveEncounter
	}

	s.myTrade = nil
	for i := range snap.Trades {
		t := snap.Trades[i]
		if t.Status == models.TradeOpen && t.Involves(s.nickname) {
			s.myTrade = &t
			break
		}
	}
	s.mon.SetTradeActive(s.myTrade != nil)

	s.mutex.Unlock()

	// Notifications fire outside the lock; handlers may call back in.
	if kicked {
		logger.Log.Infof("no longer a member of room %s, treating as kicked", snap.RoomID)
		s.notifier.Toast("kicked", "You were removed from the room")
		s.leave(true)
		return
	}
	if started {
		s.machine.ChangePhase(state.NewMissionPhase(s))
		s.notifier.MissionStarted()
	}
	if yourTurn {
		s.notifier.YourTurn()
	}
	if forced != nil {
		s.notifier.ForceOpen(*forced)
	}
	s.notifier.RoomChanged(snap)
}

func (s *Session) leave(remote bool) {
	s.mutex.Lock()
	if s.roomID == "" {
		s.mutex.Unlock()
		return
	}
	roomID := s.roomID
	nickname := s.nickname
	s.roomID = ""
	s.snapshot = nil
	s.messages = nil
	s.myTrade = nil
	s.startedNotified = false
	s.turnNotified = false
	s.lastTurnIndex = -1
	closeChan := s.closeChan
	s.closeChan = nil
	s.mutex.Unlock()

	if closeChan != nil {
		close(closeChan)
	}

	if remote {
		go func() {
			if err := s.api.LeaveRoom(roomID, nickname); err != nil {
				logger.Log.Debugf("leave call for room %s failed: %v", roomID, err)
			}
		}()
	}

	s.machine.ChangePhase(state.NewIdlePhase(s))
	s.mon.SetTradeActive(false)
	s.notifier.RoomChanged(nil)
}

// --- 只读访问 ---

func (s *Session) InRoom() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID != ""
}

func (s *Session) Phase() string {
	return s.machine.CurrentPhase().GetID()
}

func (s *Session) Snapshot() *models.RoomSnapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	snap := *s.snapshot
	return &snap
}

func (s *Session) Messages() []models.ChatMessage {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return append([]models.ChatMessage(nil), s.messages...)
}

func (s *Session) MyTrade() *models.Trade {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.myTrade == nil {
		return nil
	}
	t := *s.myTrade
	return &t
}

// IsMyTurn reports whether turnOrder[turnIndex] names the local player.
// False when the turn order is empty or the index is out of range.
func (s *Session) IsMyTurn() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.snapshot == nil {
		return false
	}
	current, ok := s.snapshot.CurrentPlayer()
	return ok && current == s.nickname
}

func (s *Session) Started() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.snapshot != nil && s.snapshot.Started
}

// --- 房间操作 ---

// ToggleReady flips the local ready flag optimistically and tells the
// service; the next poll settles any disagreement.
func (s *Session) ToggleReady() error {
	s.mutex.Lock()
	roomID := s.roomID
	nickname := s.nickname
	if s.snapshot != nil {
		for i := range s.snapshot.Members {
			if s.snapshot.Members[i].Name == nickname {
				s.snapshot.Members[i].Ready = !s.snapshot.Members[i].Ready
				break
			}
		}
	}
	s.mutex.Unlock()

	if roomID == "" {
		return errors.New("not in a room")
	}
	return s.api.ToggleReady(roomID, nickname)
}

// KickMember removes a member optimistically and tells the service.
func (s *Session) KickMember(name string) error {
	s.mutex.Lock()
	roomID := s.roomID
	if s.snapshot != nil {
		for i := range s.snapshot.Members {
			if s.snapshot.Members[i].Name == name {
				s.snapshot.Members = append(s.snapshot.Members[:i], s.snapshot.Members[i+1:]...)
				break
			}
		}
	}
	s.mutex.Unlock()

	if roomID == "" {
		return errors.New("not in a room")
	}
	return s.api.Kick(roomID, name)
}

func (s *Session) SendMessage(body string) error {
	s.mutex.RLock()
	roomID := s.roomID
	nickname := s.nickname
	s.mutex.RUnlock()

	if roomID == "" {
		return errors.New("not in a room")
	}
	msg := models.ChatMessage{
		ID:     uuid.New().String(),
		Sender: nickname,
		Body:   body,
		SentAt: time.Now(),
	}
	return s.api.PostMessage(roomID, msg)
}

func (s *Session) AdvanceTurn() error {
	s.mutex.RLock()
	roomID := s.roomID
	s.mutex.RUnlock()

	if roomID == "" {
		return errors.New("not in a room")
	}
	return s.api.AdvanceTurn(roomID)
}

// PushHealth mirrors the local health value to the service. Best
// effort: failures are logged and dropped, never retried.
func (s *Session) PushHealth(hp int) {
	s.mutex.RLock()
	roomID := s.roomID
	nickname := s.nickname
	s.mutex.RUnlock()

	if roomID == "" {
		return
	}
	go func() {
		if err := s.api.PushHealth(roomID, nickname, hp); err != nil {
			logger.Log.Debugf("health push for %s failed: %v", nickname, err)
		}
	}()
}

// BroadcastEncounter publishes an event to every room member.
func (s *Session) BroadcastEncounter(event models.GameEvent) error {
	s.mutex.RLock()
	roomID := s.roomID
	s.mutex.RUnlock()

	if roomID == "" {
		return errors.New("not in a room")
	}
	return s.api.SetEncounter(roomID, &event)
}

// RetractEncounter clears the globally broadcast encounter. Closing a
// global event locally does not clear it for anyone else; the closer
// calls this explicitly.
func (s *Session) RetractEncounter() {
	s.mutex.RLock()
	roomID := s.roomID
	s.mutex.RUnlock()

	if roomID == "" {
		return
	}
	go func() {
		if err := s.api.ClearEncounter(roomID); err != nil {
			logger.Log.Debugf("clear encounter for room %s failed: %v", roomID, err)
		}
	}()
}

// --- 交易 ---

func (s *Session) InitiateTrade(target string, offered *models.GameEvent) (*models.Trade, error) {
	s.mutex.RLock()
	roomID := s.roomID
	nickname := s.nickname
	s.mutex.RUnlock()

	if roomID == "" {
		return nil, errors.New("not in a room")
	}
	trade := models.Trade{
		FromName: nickname,
		ToName:   target,
		FromItem: offered,
		Status:   models.TradeOpen,
	}
	created, err := s.api.InitiateTrade(roomID, trade)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	s.myTrade = created
	s.mutex.Unlock()
	return created, nil
}

func (s *Session) CancelTrade() error {
	s.mutex.Lock()
	roomID := s.roomID
	trade := s.myTrade
	s.myTrade = nil
	s.mutex.Unlock()

	if roomID == "" || trade == nil {
		return nil
	}
	return s.api.CancelTrade(roomID, trade.ID)
}

func (s *Session) ConfirmTrade() error {
	s.mutex.RLock()
	roomID := s.roomID
	nickname := s.nickname
	trade := s.myTrade
	s.mutex.RUnlock()

	if roomID == "" || trade == nil {
		return errors.New("no active trade")
	}
	return s.api.ConfirmTrade(roomID, trade.ID, nickname)
}

// UpdateTrade replaces the locally offered item on the active trade.
func (s *Session) UpdateTrade(offered *models.GameEvent) error {
	s.mutex.Lock()
	roomID := s.roomID
	trade := s.myTrade
	if trade != nil {
		if trade.FromName == s.nickname {
			trade.FromItem = offered
		} else {
			trade.ToItem = offered
		}
	}
	s.mutex.Unlock()

	if roomID == "" || trade == nil {
		return errors.New("no active trade")
	}
	return s.api.UpdateTrade(roomID, *trade)
}
