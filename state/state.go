package state

import (
	"errors"
	"sync"
)

// 会话阶段状态机
// Drives the one conceptual multiplayer session the client holds:
// Idle -> Joining -> Lobby -> Mission -> Idle.
type Machine interface {
	ChangePhase(p Phase) error
	CurrentPhase() Phase
	AddTransition(from Phase, to Phase, condition func() bool) error
}

// Phase 阶段接口
type Phase interface {
	OnEnter()
	OnExit()
	OnPoll()
	GetID() string
}

// ErrTransitionNotAllowed is returned when a phase transition is not allowed.
var ErrTransitionNotAllowed = errors.New("phase transition not allowed")

// Phase identifiers.
const (
	PhaseIdle    = "idle"
	PhaseJoining = "joining"
	PhaseLobby   = "lobby"
	PhaseMission = "mission"
)

// 基础状态机实现
type BaseMachine struct {
	current     Phase
	transitions map[string]map[string]func() bool // fromPhase -> toPhase -> condition
	mutex       sync.RWMutex
}

func NewBaseMachine(initial Phase) *BaseMachine {
	machine := &BaseMachine{
		current:     initial,
		transitions: make(map[string]map[string]func() bool),
	}
	initial.OnEnter()
	return machine
}

func (m *BaseMachine) ChangePhase(next Phase) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	currentID := m.current.GetID()
	nextID := next.GetID()

	if conditions, exists := m.transitions[currentID]; exists {
		if condition, exists := conditions[nextID]; exists {
			if condition != nil && !condition() {
				return ErrTransitionNotAllowed
			}
		}
	}

	m.current.OnExit()
	m.current = next
	m.current.OnEnter()

	return nil
}

func (m *BaseMachine) CurrentPhase() Phase {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

func (m *BaseMachine) AddTransition(from Phase, to Phase, condition func() bool) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	fromID := from.GetID()
	toID := to.GetID()

	if _, exists := m.transitions[fromID]; !exists {
		m.transitions[fromID] = make(map[string]func() bool)
	}

	m.transitions[fromID][toID] = condition
	return nil
}
