// Interactive terminal surface for the starvault daemon. Attaches to
// the local gateway and drives the core from stdin commands:
//
//	scan <code>     扫码
//	open <card-id>  打开收藏中的卡
//	close           关闭当前事件
//	hp <delta>      调整生命值(其他: mana/fuel/gold/armor/oxygen)
//	night / day     切换昼夜
//	create          创建房间
//	join <id> [pw]  加入房间
//	leave ready chat <text> endturn focus
package main

import (
	"bufio"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wfunc/starvault/network"
)

// send frames and sends one message to the gateway.
func send(c *websocket.Conn, msgID uint16, payload interface{}) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	return c.WriteMessage(websocket.BinaryMessage, network.Marshal(msgID, data))
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addr := "localhost:7700"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws", RawQuery: "surface=terminal"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.Unmarshal(message)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))
		}
	}()

	// Heartbeat keeps the session marked active.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				send(c, network.MsgTypeHeartbeat, nil)
			}
		}
	}()

	log.Println("Client started. Type 'scan <code>' to begin.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			line, _ := reader.ReadString('\n')
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			if err := dispatch(c, fields); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func dispatch(c *websocket.Conn, fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "scan":
		if len(args) < 1 {
			log.Println("usage: scan <code>")
			return nil
		}
		return send(c, network.MsgTypeScan, map[string]string{"code": args[0]})

	case "open":
		if len(args) < 1 {
			log.Println("usage: open <card-id>")
			return nil
		}
		return send(c, network.MsgTypeOpenCard, map[string]string{"card_id": args[0]})

	case "close":
		return send(c, network.MsgTypeCloseEvent, nil)

	case "hp", "mana", "fuel", "gold", "armor", "oxygen":
		if len(args) < 1 {
			log.Printf("usage: %s <delta>", cmd)
			return nil
		}
		delta, err := strconv.Atoi(args[0])
		if err != nil {
			log.Println("delta must be a number")
			return nil
		}
		stat := cmd
		if stat == "hp" {
			stat = "health"
		}
		return send(c, network.MsgTypeAdjust, map[string]interface{}{"stat": stat, "delta": delta})

	case "night":
		return send(c, network.MsgTypeDayNight, map[string]bool{"is_night": true})

	case "day":
		return send(c, network.MsgTypeDayNight, map[string]bool{"is_night": false})

	case "create":
		return send(c, network.MsgTypeCreateRoom, nil)

	case "join":
		if len(args) < 1 {
			log.Println("usage: join <room-id> [password]")
			return nil
		}
		req := map[string]string{"room_id": args[0]}
		if len(args) > 1 {
			req["password"] = args[1]
		}
		return send(c, network.MsgTypeJoinRoom, req)

	case "leave":
		return send(c, network.MsgTypeLeaveRoom, nil)

	case "ready":
		return send(c, network.MsgTypeReady, nil)

	case "chat":
		if len(args) < 1 {
			log.Println("usage: chat <text>")
			return nil
		}
		return send(c, network.MsgTypeChat, map[string]string{"body": strings.Join(args, " ")})

	case "endturn":
		return send(c, network.MsgTypeEndTurn, nil)

	case "focus":
		return send(c, network.MsgTypeFocusRoom, nil)

	default:
		log.Printf("Unknown command: %s", cmd)
		return nil
	}
}
