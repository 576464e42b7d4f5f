package state

import (
	"testing"
)

// MockPhase is a test double for the Phase interface.
// It helps us track which methods have been called.
type MockPhase struct {
	ID            string
	OnEnterCalled bool
	OnExitCalled  bool
	OnPollCalled  bool
}

func (m *MockPhase) OnEnter() {
	m.OnEnterCalled = true
}

func (m *MockPhase) OnExit() {
	m.OnExitCalled = true
}

func (m *MockPhase) OnPoll() {
	m.OnPollCalled = true
}

func (m *MockPhase) GetID() string {
	return m.ID
}

// reset clears the call tracking flags.
func (m *MockPhase) reset() {
	m.OnEnterCalled = false
	m.OnExitCalled = false
	m.OnPollCalled = false
}

func TestMachine_InitialPhase(t *testing.T) {
	initial := &MockPhase{ID: PhaseIdle}
	m := NewBaseMachine(initial)

	if !initial.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the initial phase")
	}

	if m.CurrentPhase() != initial {
		t.Error("CurrentPhase should return the initial phase")
	}
}

func TestMachine_ChangePhase(t *testing.T) {
	initial := &MockPhase{ID: PhaseIdle}
	next := &MockPhase{ID: PhaseJoining}

	m := NewBaseMachine(initial)
	initial.reset() // Reset after initialization

	err := m.ChangePhase(next)
	if err != nil {
		t.Fatalf("ChangePhase should not return an error, but got: %v", err)
	}

	if !initial.OnExitCalled {
		t.Error("Expected OnExit to be called on the old phase")
	}

	if !next.OnEnterCalled {
		t.Error("Expected OnEnter to be called on the new phase")
	}

	if m.CurrentPhase() != next {
		t.Error("CurrentPhase should return the new phase")
	}
}

func TestMachine_AddAndUseTransition(t *testing.T) {
	idle := &MockPhase{ID: PhaseIdle}
	lobby := &MockPhase{ID: PhaseLobby}
	mission := &MockPhase{ID: PhaseMission}

	m := NewBaseMachine(idle)

	// Add a valid transition from idle to lobby
	err := m.AddTransition(idle, lobby, func() bool { return true })
	if err != nil {
		t.Fatalf("AddTransition failed: %v", err)
	}

	// Add a blocked transition from lobby to mission
	err = m.AddTransition(lobby, mission, func() bool { return false })
	if err != nil {
		t.Fatalf("AddTransition failed: %v", err)
	}

	// --- Test valid transition ---
	idle.reset()
	err = m.ChangePhase(lobby)
	if err != nil {
		t.Errorf("Expected transition from idle to lobby to be allowed, but got error: %v", err)
	}
	if m.CurrentPhase().GetID() != PhaseLobby {
		t.Errorf("Expected current phase to be lobby, but got %s", m.CurrentPhase().GetID())
	}

	// --- Test blocked transition ---
	lobby.reset()
	err = m.ChangePhase(mission)
	if err != ErrTransitionNotAllowed {
		t.Errorf("Expected ErrTransitionNotAllowed, but got: %v", err)
	}
	if m.CurrentPhase().GetID() != PhaseLobby {
		t.Errorf("Expected current phase to remain lobby after a blocked transition, but got %s", m.CurrentPhase().GetID())
	}
	if lobby.OnExitCalled {
		t.Error("OnExit should not be called on the current phase if transition is blocked")
	}
	if mission.OnEnterCalled {
		t.Error("OnEnter should not be called on the new phase if transition is blocked")
	}
}

func TestMachine_UnregisteredTransitionAllowed(t *testing.T) {
	idle := &MockPhase{ID: PhaseIdle}
	mission := &MockPhase{ID: PhaseMission}

	m := NewBaseMachine(idle)

	// No transition registered between idle and mission: permissive.
	if err := m.ChangePhase(mission); err != nil {
		t.Errorf("Expected unregistered transition to pass, got: %v", err)
	}
}
