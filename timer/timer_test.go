package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_OneShot(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.Schedule(50*time.Millisecond, 0, func() { fired.Add(1) })

	time.Sleep(400 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("Expected one-shot to fire exactly once, got %d", got)
	}
}

func TestManager_Repeating(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	m.Schedule(0, 150*time.Millisecond, func() { fired.Add(1) })

	time.Sleep(600 * time.Millisecond)
	if got := fired.Load(); got < 2 {
		t.Errorf("Expected repeating task to fire at least twice, got %d", got)
	}
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired atomic.Int32
	id := m.Schedule(200*time.Millisecond, 0, func() { fired.Add(1) })
	m.Cancel(id)

	time.Sleep(500 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("Expected cancelled task not to fire, got %d", got)
	}
}
