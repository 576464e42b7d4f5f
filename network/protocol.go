package network

// Message IDs for the local UI gateway protocol. 1xx flow from an
// attached UI surface into the core, 2xx flow back out.
const (
	MsgTypeHeartbeat = 1

	MsgTypeScan       = 101
	MsgTypeOpenCard   = 102
	MsgTypeCloseEvent = 103
	MsgTypeAdjust     = 104
	MsgTypeDayNight   = 105
	MsgTypeCreateRoom = 111
	MsgTypeJoinRoom   = 112
	MsgTypeLeaveRoom  = 113
	MsgTypeReady      = 114
	MsgTypeChat       = 115
	MsgTypeEndTurn    = 116
	MsgTypeFocusRoom  = 117

	MsgTypeToast        = 201
	MsgTypeFlash        = 202
	MsgTypeOpenEvent    = 203
	MsgTypeDock         = 204
	MsgTypeStateSync    = 205
	MsgTypeRoomSync     = 206
	MsgTypeYourTurn     = 207
	MsgTypeMissionStart = 208
)
