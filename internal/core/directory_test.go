package core

import (
	"sync"
	"testing"

	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

type fakeConn struct {
	id ConnID

	mu     sync.Mutex
	frames []Frame
	closed bool
}

func (c *fakeConn) ID() ConnID { return c.id }

func (c *fakeConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func user(id string) *domain.User {
	return &domain.User{ID: domain.UserID(id), Username: id}
}

func TestRegisterAndLookup(t *testing.T) {
	d := NewDirectory()
	conn := &fakeConn{id: "c1"}

	if displaced := d.Register(user("alice"), conn); displaced != nil {
		t.Fatalf("unexpected displaced conn for a fresh identity")
	}

	got, ok := d.Lookup("alice")
	if !ok {
		t.Fatal("Lookup(alice) not found after Register")
	}
	if got.ID() != "c1" {
		t.Errorf("Lookup returned conn %q, want c1", got.ID())
	}

	if _, ok := d.Lookup("bob"); ok {
		t.Error("Lookup(bob) found a connection for an unknown identity")
	}
}

func TestRegisterLastWriterWins(t *testing.T) {
	d := NewDirectory()
	first := &fakeConn{id: "c1"}
	second := &fakeConn{id: "c2"}

	d.Register(user("alice"), first)
	displaced := d.Register(user("alice"), second)

	if displaced == nil || displaced.ID() != "c1" {
		t.Fatalf("reconnect did not displace the previous connection")
	}
	got, _ := d.Lookup("alice")
	if got.ID() != "c2" {
		t.Errorf("Lookup after reconnect = %q, want c2", got.ID())
	}

	// The stale connection's teardown must not remove the new entry.
	if _, ok := d.Unregister("c1"); ok {
		t.Error("Unregister of a displaced connection removed directory state")
	}
	if _, ok := d.Lookup("alice"); !ok {
		t.Error("alice went offline after the displaced connection unregistered")
	}
}

func TestUnregister(t *testing.T) {
	d := NewDirectory()
	conn := &fakeConn{id: "c1"}
	d.Register(user("alice"), conn)

	u, ok := d.Unregister("c1")
	if !ok || u.ID != "alice" {
		t.Fatalf("Unregister = (%v, %v), want alice", u, ok)
	}
	if _, ok := d.Lookup("alice"); ok {
		t.Error("alice still online after Unregister")
	}
	if _, ok := d.IdentityOf("c1"); ok {
		t.Error("reverse index still maps the removed connection")
	}

	// Second teardown of the same connection is a no-op.
	if _, ok := d.Unregister("c1"); ok {
		t.Error("second Unregister reported a removal")
	}
}

func TestOnlineTracksLiveConnections(t *testing.T) {
	d := NewDirectory()

	d.Register(user("alice"), &fakeConn{id: "c1"})
	d.Register(user("bob"), &fakeConn{id: "c2"})
	d.Register(user("carol"), &fakeConn{id: "c3"})
	d.Unregister("c2")
	d.Register(user("bob"), &fakeConn{id: "c4"})
	d.Unregister("c3")

	online := d.Online()
	want := map[domain.UserID]bool{"alice": true, "bob": true}
	if len(online) != len(want) {
		t.Fatalf("Online() returned %d entries, want %d", len(online), len(want))
	}
	for _, p := range online {
		if !want[p.ID] {
			t.Errorf("Online() contains stale identity %q", p.ID)
		}
	}

	if got := len(d.Conns()); got != 2 {
		t.Errorf("Conns() returned %d connections, want 2", got)
	}
}

func TestIdentityOf(t *testing.T) {
	d := NewDirectory()
	d.Register(user("alice"), &fakeConn{id: "c1"})

	u, ok := d.IdentityOf("c1")
	if !ok || u.ID != "alice" {
		t.Fatalf("IdentityOf(c1) = (%v, %v), want alice", u, ok)
	}
	if _, ok := d.IdentityOf("nope"); ok {
		t.Error("IdentityOf resolved an unknown connection")
	}
}
