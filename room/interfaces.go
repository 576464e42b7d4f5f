package room

import (
	"github.com/wfunc/starvault/models"
)

// Notifier is the one-way channel from the sync loop to whatever UI is
// attached. Defined here to break the import cycle between room and
// broadcast.
type Notifier interface {
	// Toast 弹出一条临时提示
	Toast(kind, text string)
	// MissionStarted fires once per session when the started flag flips.
	MissionStarted()
	// YourTurn fires once per turn-index transition onto the local player.
	YourTurn()
	// ForceOpen presents a globally broadcast encounter, overriding
	// whatever the player was looking at.
	ForceOpen(event models.GameEvent)
	// RoomChanged signals that the cached snapshot was replaced.
	RoomChanged(snapshot *models.RoomSnapshot)
}

// CurrentEventFunc reports the ID of the event the player is currently
// looking at, or "" when none is open. Supplied by the owning store so
// the poll diff can tell a new global encounter from the one already on
// screen.
type CurrentEventFunc func() string
