package session

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = clock.now
	return m, clock
}

func TestMemory_SetGet(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	m.Set(ctx, "alice", "batch", 42, time.Minute)

	v, ok := m.Get(ctx, "alice", "batch")
	if !ok || v.(int) != 42 {
		t.Errorf("Get() = %v, %v, want 42, true", v, ok)
	}
	if _, ok := m.Get(ctx, "bob", "batch"); ok {
		t.Error("Get() for another owner should miss")
	}
}

func TestMemory_Expiry(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	m.Set(ctx, "alice", "batch", "x", time.Hour)

	clock.advance(59 * time.Minute)
	if _, ok := m.Get(ctx, "alice", "batch"); !ok {
		t.Error("entry should still be live before the TTL")
	}

	clock.advance(time.Minute)
	if _, ok := m.Get(ctx, "alice", "batch"); ok {
		t.Error("entry should expire at the TTL")
	}
}

func TestMemory_DefaultTTL(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	m.Set(ctx, "alice", "batch", "x", 0)
	clock.advance(DefaultTTL - time.Second)
	if _, ok := m.Get(ctx, "alice", "batch"); !ok {
		t.Error("zero TTL should fall back to DefaultTTL")
	}
}

func TestMemory_Delete(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	m.Set(ctx, "alice", "batch", "x", time.Minute)
	m.Delete(ctx, "alice", "batch")
	if _, ok := m.Get(ctx, "alice", "batch"); ok {
		t.Error("Get() after Delete should miss")
	}
}

func TestMemory_Take(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	m.Set(ctx, "alice", "batch", "x", time.Minute)
	if v, ok := m.Take(ctx, "alice", "batch"); !ok || v != "x" {
		t.Errorf("Take() = %v, %v, want x, true", v, ok)
	}
	if _, ok := m.Take(ctx, "alice", "batch"); ok {
		t.Error("second Take() should miss")
	}

	m.Set(ctx, "alice", "batch", "y", time.Minute)
	clock.advance(time.Minute)
	if _, ok := m.Take(ctx, "alice", "batch"); ok {
		t.Error("Take() of expired value should miss")
	}
	if n := len(m.entries); n != 0 {
		t.Errorf("entries after Take = %d, want 0", n)
	}
}

func TestMemory_Sweep(t *testing.T) {
	m, clock := newTestMemory()
	ctx := context.Background()

	m.Set(ctx, "alice", "batch", "x", time.Minute)
	m.Set(ctx, "bob", "batch", "y", time.Hour)

	clock.advance(2 * time.Minute)
	if got := m.Sweep(); got != 1 {
		t.Errorf("Sweep() = %d, want 1", got)
	}
	if got := m.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestStartSweeper_InvalidSchedule(t *testing.T) {
	if _, err := StartSweeper("not a schedule", NewMemory()); err == nil {
		t.Error("StartSweeper() expected error for invalid spec")
	}
}

func TestStartSweeper_Valid(t *testing.T) {
	c, err := StartSweeper("@every 1h", NewMemory())
	if err != nil {
		t.Fatalf("StartSweeper() error = %v", err)
	}
	defer c.Stop()

	if got := len(c.Entries()); got != 1 {
		t.Errorf("Entries() = %d, want 1", got)
	}
}
