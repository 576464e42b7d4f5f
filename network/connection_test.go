package network

import (
	"bytes"
	"testing"
)

func TestMarshalUnmarshal(t *testing.T) {
	payload := []byte(`{"code":"evt__wolves"}`)
	raw := Marshal(MsgTypeScan, payload)

	if len(raw) != 4+len(payload) {
		t.Fatalf("Expected frame of %d bytes, got %d", 4+len(payload), len(raw))
	}

	packet, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if packet.MsgID != MsgTypeScan {
		t.Errorf("Expected msg ID %d, got %d", MsgTypeScan, packet.MsgID)
	}
	if !bytes.Equal(packet.Data, payload) {
		t.Errorf("Expected payload %q, got %q", payload, packet.Data)
	}
}

func TestMarshal_EmptyPayload(t *testing.T) {
	raw := Marshal(MsgTypeHeartbeat, nil)

	packet, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if packet.MsgID != MsgTypeHeartbeat {
		t.Errorf("Expected heartbeat ID, got %d", packet.MsgID)
	}
	if len(packet.Data) != 0 {
		t.Errorf("Expected empty payload, got %d bytes", len(packet.Data))
	}
}

func TestUnmarshal_ShortFrames(t *testing.T) {
	if _, err := Unmarshal([]byte{0x00}); err == nil {
		t.Error("Expected error for a truncated header")
	}

	// Header claims more data than the frame carries.
	raw := Marshal(MsgTypeScan, []byte("abcdef"))
	if _, err := Unmarshal(raw[:7]); err == nil {
		t.Error("Expected error for a truncated body")
	}
}
