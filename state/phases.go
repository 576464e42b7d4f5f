// state/phases.go
package state

import (
	"github.com/wfunc/starvault/logger"
)

// SessionContext is what a phase needs to know about the owning
// session. Defined here to break the import cycle with the room
// package.
type SessionContext interface {
	RoomID() string
	Nickname() string
}

// 阶段基础结构
type PhaseBase struct {
	ID      string
	Session SessionContext
}

func (p *PhaseBase) GetID() string {
	return p.ID
}

func (p *PhaseBase) OnEnter() {
	// 默认实现
}

func (p *PhaseBase) OnExit() {
	// 默认实现
}

func (p *PhaseBase) OnPoll() {
	// 默认实现
}

// IdlePhase 未连接
type IdlePhase struct {
	PhaseBase
}

func NewIdlePhase(session SessionContext) *IdlePhase {
	return &IdlePhase{PhaseBase{ID: PhaseIdle, Session: session}}
}

// JoiningPhase covers the window between the create/join call going out
// and the first snapshot coming back.
type JoiningPhase struct {
	PhaseBase
}

func NewJoiningPhase(session SessionContext) *JoiningPhase {
	return &JoiningPhase{PhaseBase{ID: PhaseJoining, Session: session}}
}

func (p *JoiningPhase) OnEnter() {
	logger.Log.Infof("joining room as %s", p.Session.Nickname())
}

// LobbyPhase 等待开局
type LobbyPhase struct {
	PhaseBase
}

func NewLobbyPhase(session SessionContext) *LobbyPhase {
	return &LobbyPhase{PhaseBase{ID: PhaseLobby, Session: session}}
}

func (p *LobbyPhase) OnEnter() {
	logger.Log.Infof("entered lobby of room %s", p.Session.RoomID())
}

// MissionPhase 任务进行中
type MissionPhase struct {
	PhaseBase
}

func NewMissionPhase(session SessionContext) *MissionPhase {
	return &MissionPhase{PhaseBase{ID: PhaseMission, Session: session}}
}

func (p *MissionPhase) OnEnter() {
	logger.Log.Infof("mission started in room %s", p.Session.RoomID())
}

func (p *MissionPhase) OnExit() {
	logger.Log.Infof("mission over in room %s", p.Session.RoomID())
}
