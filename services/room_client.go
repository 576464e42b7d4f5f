// services/room_client.go
package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wfunc/starvault/models"
)

// RoomAPI 房间服务接口
// Everything the sync loop and the store need from the remote room
// service. Implementations are expected to be safe for concurrent use.
type RoomAPI interface {
	CreateRoom(nickname string) (*models.RoomSnapshot, error)
	JoinRoom(roomID, nickname, password string) (*models.RoomSnapshot, error)
	LeaveRoom(roomID, nickname string) error
	Status(roomID string) (*models.RoomSnapshot, error)
	Messages(roomID string) ([]models.ChatMessage, error)
	PostMessage(roomID string, msg models.ChatMessage) error
	AdvanceTurn(roomID string) error
	ToggleReady(roomID, nickname string) error
	Kick(roomID, nickname string) error
	PushHealth(roomID, nickname string, hp int) error
	SetEncounter(roomID string, event *models.GameEvent) error
	ClearEncounter(roomID string) error
	InitiateTrade(roomID string, trade models.Trade) (*models.Trade, error)
	CancelTrade(roomID, tradeID string) error
	ConfirmTrade(roomID, tradeID, nickname string) error
	UpdateTrade(roomID string, trade models.Trade) error
}

// RoomClient is the HTTP implementation of RoomAPI.
type RoomClient struct {
	rest *restClient
}

func NewRoomClient(baseURL string, timeout time.Duration, conn *Connectivity) *RoomClient {
	return &RoomClient{
		rest: newRESTClient(baseURL, timeout, conn),
	}
}

func roomPath(roomID, suffix string) string {
	return "/rooms/" + url.PathEscape(roomID) + suffix
}

func (c *RoomClient) CreateRoom(nickname string) (*models.RoomSnapshot, error) {
	req := map[string]string{"nickname": nickname}
	var snap models.RoomSnapshot
	if err := c.rest.do(http.MethodPost, "/rooms", req, &snap); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &snap, nil
}

func (c *RoomClient) JoinRoom(roomID, nickname, password string) (*models.RoomSnapshot, error) {
	req := map[string]string{"nickname": nickname}
	if password != "" {
		req["password"] = password
	}
	var snap models.RoomSnapshot
	if err := c.rest.do(http.MethodPost, roomPath(roomID, "/join"), req, &snap); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRoomGone
		}
		return nil, fmt.Errorf("join room %s: %w", roomID, err)
	}
	return &snap, nil
}

func (c *RoomClient) LeaveRoom(roomID, nickname string) error {
	req := map[string]string{"nickname": nickname}
	return c.rest.do(http.MethodPost, roomPath(roomID, "/leave"), req, nil)
}

// Status fetches the authoritative room snapshot. A 404 means the room
// itself is gone, not a transient failure.
func (c *RoomClient) Status(roomID string) (*models.RoomSnapshot, error) {
	var snap models.RoomSnapshot
	if err := c.rest.do(http.MethodGet, roomPath(roomID, "/status"), nil, &snap); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRoomGone
		}
		return nil, err
	}
	return &snap, nil
}

func (c *RoomClient) Messages(roomID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := c.rest.do(http.MethodGet, roomPath(roomID, "/messages"), nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *RoomClient) PostMessage(roomID string, msg models.ChatMessage) error {
	return c.rest.do(http.MethodPost, roomPath(roomID, "/messages"), msg, nil)
}

func (c *RoomClient) AdvanceTurn(roomID string) error {
	return c.rest.do(http.MethodPost, roomPath(roomID, "/turn"), nil, nil)
}

func (c *RoomClient) ToggleReady(roomID, nickname string) error {
	req := map[string]string{"nickname": nickname}
	return c.rest.do(http.MethodPost, roomPath(roomID, "/ready"), req, nil)
}

func (c *RoomClient) Kick(roomID, nickname string) error {
	req := map[string]string{"nickname": nickname}
	return c.rest.do(http.MethodPost, roomPath(roomID, "/kick"), req, nil)
}

func (c *RoomClient) PushHealth(roomID, nickname string, hp int) error {
	req := map[string]interface{}{"nickname": nickname, "hp": hp}
	return c.rest.do(http.MethodPost, roomPath(roomID, "/health"), req, nil)
}

func (c *RoomClient) SetEncounter(roomID string, event *models.GameEvent) error {
	return c.rest.do(http.MethodPut, roomPath(roomID, "/encounter"), event, nil)
}

func (c *RoomClient) ClearEncounter(roomID string) error {
	return c.rest.do(http.MethodDelete, roomPath(roomID, "/encounter"), nil, nil)
}

func (c *RoomClient) InitiateTrade(roomID string, trade models.Trade) (*models.Trade, error) {
	var created models.Trade
	if err := c.rest.do(http.MethodPost, roomPath(roomID, "/trades"), trade, &created); err != nil {
		return nil, fmt.Errorf("initiate trade: %w", err)
	}
	return &created, nil
}

func (c *RoomClient) CancelTrade(roomID, tradeID string) error {
	return c.rest.do(http.MethodDelete, roomPath(roomID, "/trades/"+url.PathEscape(tradeID)), nil, nil)
}

func (c *RoomClient) ConfirmTrade(roomID, tradeID, nickname string) error {
	req := map[string]string{"nickname": nickname}
	return c.rest.do(http.MethodPost, roomPath(roomID, "/trades/"+url.PathEscape(tradeID)+"/confirm"), req, nil)
}

func (c *RoomClient) UpdateTrade(roomID string, trade models.Trade) error {
	return c.rest.do(http.MethodPut, roomPath(roomID, "/trades/"+url.PathEscape(trade.ID)), trade, nil)
}
