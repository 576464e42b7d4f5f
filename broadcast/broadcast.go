// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"

	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/network"
	"github.com/wfunc/starvault/session"
)

// UIBroadcaster pushes core-side happenings out to every attached UI
// surface. Send failures on individual surfaces are skipped; a dead
// connection gets cleaned up by its own read loop.
type UIBroadcaster struct {
	sessions *session.Manager
}

func NewUIBroadcaster(sessions *session.Manager) *UIBroadcaster {
	return &UIBroadcaster{sessions: sessions}
}

func (b *UIBroadcaster) send(msgID uint16, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Errorf("marshal broadcast payload: %v", err)
		return
	}
	for _, s := range b.sessions.All() {
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
}

// Toast 弹出提示
func (b *UIBroadcaster) Toast(kind, text string) {
	b.send(network.MsgTypeToast, map[string]string{"kind": kind, "text": text})
}

// Flash triggers the transient screen flash on health changes.
func (b *UIBroadcaster) Flash(kind string) {
	b.send(network.MsgTypeFlash, map[string]string{"kind": kind})
}

func (b *UIBroadcaster) MissionStarted() {
	b.send(network.MsgTypeMissionStart, map[string]string{})
}

func (b *UIBroadcaster) YourTurn() {
	b.send(network.MsgTypeYourTurn, map[string]string{})
}

// ForceOpen presents a globally broadcast encounter on every surface.
func (b *UIBroadcaster) ForceOpen(event models.GameEvent) {
	b.send(network.MsgTypeOpenEvent, event)
}

// OpenEvent presents a locally resolved event.
func (b *UIBroadcaster) OpenEvent(event models.GameEvent) {
	b.send(network.MsgTypeOpenEvent, event)
}

// Dock starts the station docking sequence on every surface.
func (b *UIBroadcaster) Dock(event models.GameEvent) {
	b.send(network.MsgTypeDock, event)
}

func (b *UIBroadcaster) RoomChanged(snapshot *models.RoomSnapshot) {
	b.send(network.MsgTypeRoomSync, snapshot)
}

// StateSync pushes the aggregate player state after a mutation.
func (b *UIBroadcaster) StateSync(state interface{}) {
	b.send(network.MsgTypeStateSync, state)
}
