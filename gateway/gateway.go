package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/monitor"
	"github.com/wfunc/starvault/network"
	"github.com/wfunc/starvault/session"
	"github.com/wfunc/starvault/store"
)

// Gateway is the local WebSocket server UI surfaces attach to. Each
// surface speaks the framed protocol in network/ and drives the store
// through 1xx messages; 2xx messages flow back out via the broadcaster.
type Gateway struct {
	addr         string
	upgrader     websocket.Upgrader
	sessions     *session.Manager
	store        *store.Store
	mon          *monitor.Monitor
	shutdownChan chan struct{}
}

func New(addr string, st *store.Store, sessions *session.Manager, mon *monitor.Monitor) *Gateway {
	return &Gateway{
		addr:         addr,
		sessions:     sessions,
		store:        st,
		mon:          mon,
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 本地网关，允许所有来源
			},
		},
	}
}

func (g *Gateway) Start() error {
	http.HandleFunc("/ws", g.handleWebSocket)
	logger.Log.Infof("UI gateway listening on %s", g.addr)
	return http.ListenAndServe(g.addr, nil)
}

func (g *Gateway) Shutdown() {
	close(g.shutdownChan)
}

func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	g.handleConnection(conn, r.URL.Query().Get("surface"))
}

func (g *Gateway) handleConnection(conn *websocket.Conn, surface string) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	if surface != "" {
		sess.SetSurface(surface)
	}
	g.sessions.Add(sess)
	g.mon.SetAttachedUIs(g.sessions.Count())

	logger.Log.Infof("UI attached from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	// 新连接先同步一次完整状态
	if data, err := json.Marshal(g.store.StateSnapshot()); err == nil {
		sess.Send(network.MsgTypeStateSync, data)
	}

	defer func() {
		logger.Log.Infof("UI detached from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		g.sessions.Remove(sess.GetID())
		g.mon.SetAttachedUIs(g.sessions.Count())
		wsConn.Close()
	}()

	for {
		select {
		case <-g.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			g.handlePacket(sess, packet)
		}
	}
}

func (g *Gateway) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()

	case network.MsgTypeScan:
		var req struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			return
		}
		g.store.Scan(req.Code)

	case network.MsgTypeOpenCard:
		var req struct {
			CardID string `json:"card_id"`
		}
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			return
		}
		g.store.OpenCard(req.CardID)

	case network.MsgTypeCloseEvent:
		g.store.CloseEvent()

	case network.MsgTypeAdjust:
		g.handleAdjust(packet)

	case network.MsgTypeDayNight:
		var req struct {
			IsNight bool `json:"is_night"`
		}
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			return
		}
		g.store.SetNight(req.IsNight)

	case network.MsgTypeCreateRoom:
		if err := g.store.CreateRoom(); err != nil {
			logger.Log.Warnf("create room: %v", err)
		}

	case network.MsgTypeJoinRoom:
		var req struct {
			RoomID   string `json:"room_id"`
			Password string `json:"password"`
		}
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			return
		}
		if err := g.store.JoinRoom(req.RoomID, req.Password); err != nil {
			logger.Log.Warnf("join room %s: %v", req.RoomID, err)
		}

	case network.MsgTypeLeaveRoom:
		g.store.LeaveRoom()

	case network.MsgTypeReady:
		if err := g.store.Session().ToggleReady(); err != nil {
			logger.Log.Warnf("toggle ready: %v", err)
		}

	case network.MsgTypeChat:
		var req struct {
			Body string `json:"body"`
		}
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			return
		}
		if err := g.store.Session().SendMessage(req.Body); err != nil {
			logger.Log.Warnf("send message: %v", err)
		}

	case network.MsgTypeEndTurn:
		if err := g.store.Session().AdvanceTurn(); err != nil {
			logger.Log.Warnf("advance turn: %v", err)
		}

	case network.MsgTypeFocusRoom:
		g.store.FocusRoomView()

	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (g *Gateway) handleAdjust(packet *network.Packet) {
	var req struct {
		Stat  string `json:"stat"`
		Delta int    `json:"delta"`
	}
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	switch req.Stat {
	case "health":
		g.store.AdjustHealth(req.Delta)
	case "mana":
		g.store.AdjustMana(req.Delta)
	case "fuel":
		g.store.AdjustFuel(req.Delta)
	case "gold":
		g.store.AdjustGold(req.Delta)
	case "armor":
		g.store.AdjustArmor(req.Delta)
	case "oxygen":
		g.store.AdjustOxygen(req.Delta)
	default:
		logger.Log.Infof("Unknown stat: %s", req.Stat)
	}
}
