package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wfunc/starvault/models"
)

func TestRoomClient_CreateAndStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rooms":
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["nickname"] != "alice" {
				t.Errorf("Expected nickname alice, got %s", req["nickname"])
			}
			json.NewEncoder(w).Encode(models.RoomSnapshot{RoomID: "room_1", Host: "alice"})
		case r.Method == http.MethodGet && r.URL.Path == "/rooms/room_1/status":
			json.NewEncoder(w).Encode(models.RoomSnapshot{RoomID: "room_1", Round: 2})
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	conn := NewConnectivity()
	client := NewRoomClient(server.URL, time.Second, conn)

	snap, err := client.CreateRoom("alice")
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if snap.RoomID != "room_1" {
		t.Errorf("Expected room_1, got %s", snap.RoomID)
	}

	snap, err = client.Status("room_1")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if snap.Round != 2 {
		t.Errorf("Expected round 2, got %d", snap.Round)
	}
	if !conn.Online() {
		t.Error("Successful round-trips must mark the link up")
	}
}

func TestRoomClient_StatusRoomGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewRoomClient(server.URL, time.Second, NewConnectivity())

	_, err := client.Status("room_x")
	if !errors.Is(err, ErrRoomGone) {
		t.Errorf("Expected ErrRoomGone for a 404 status, got %v", err)
	}
}

func TestRoomClient_TransportFailureMarksOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 连接必然失败

	conn := NewConnectivity()
	client := NewRoomClient(server.URL, time.Second, conn)

	if _, err := client.Status("room_1"); err == nil {
		t.Fatal("Expected transport error")
	}
	if conn.Online() {
		t.Error("Transport failure must mark the link down")
	}
}

func TestRoomClient_ErrorStatusKeepsOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	conn := NewConnectivity()
	conn.SetOnline(false)
	client := NewRoomClient(server.URL, time.Second, conn)

	if err := client.AdvanceTurn("room_1"); err == nil {
		t.Fatal("Expected error for a 500 response")
	}
	// Any response at all proves the link works.
	if !conn.Online() {
		t.Error("An error status is still a reachable service")
	}
}

func TestInventoryClient_CardRoundTrip(t *testing.T) {
	var stored models.GameEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/inventories/tester@example.com/cards/evt__a":
			json.NewDecoder(r.Body).Decode(&stored)
		case r.Method == http.MethodGet && r.URL.Path == "/inventories/tester@example.com/cards":
			json.NewEncoder(w).Encode([]models.GameEvent{stored})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewInventoryClient(server.URL, time.Second, NewConnectivity())

	if err := client.Upsert("tester@example.com", models.GameEvent{ID: "evt__a", Title: "Card"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	cards, err := client.Fetch("tester@example.com")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(cards) != 1 || cards[0].Title != "Card" {
		t.Errorf("Expected the upserted card back, got %+v", cards)
	}
}

func TestInventoryClient_LookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewInventoryClient(server.URL, time.Second, NewConnectivity())

	if _, err := client.Lookup("evt__missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInventoryClient_GetCharacter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/characters/navigator" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.Character{ID: "navigator", Name: "Navigator", BaseHealth: 90})
	}))
	defer server.Close()

	client := NewInventoryClient(server.URL, time.Second, NewConnectivity())

	ch, err := client.GetCharacter("navigator")
	if err != nil {
		t.Fatalf("GetCharacter failed: %v", err)
	}
	if ch.BaseHealth != 90 {
		t.Errorf("Expected base health 90, got %d", ch.BaseHealth)
	}
}
