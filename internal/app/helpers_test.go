package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
	"github.com/Professor-FernandoLopes/discordBackend/internal/domain"
)

type fakeConn struct {
	id core.ConnID

	mu     sync.Mutex
	frames []core.Frame
	closed bool
	full   bool
}

func (c *fakeConn) ID() core.ConnID { return c.id }

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errSendFull
	}
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

// pushes decodes every frame of the given type.
func (c *fakeConn) pushes(t *testing.T, typ string) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []map[string]any
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err != nil {
			t.Fatalf("undecodable push frame %q: %v", f, err)
		}
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

var errSendFull = errors.New("send buffer full")

// recordingStore captures history calls.
type recordingStore struct {
	mu       sync.Mutex
	recorded []domain.DirectMessage
	canned   []domain.DirectMessage
}

func (s *recordingStore) Record(_ context.Context, msg domain.DirectMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, msg)
	return nil
}

func (s *recordingStore) Conversation(context.Context, domain.UserID, domain.UserID, int) ([]domain.DirectMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canned, nil
}

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(core.NewDirectory(), core.NewRoomTable(), NoopStore{})
}

func testUser(name string) *domain.User {
	return &domain.User{ID: domain.UserID(name), Username: name}
}

func connect(o *Orchestrator, id core.ConnID, name string) *fakeConn {
	conn := &fakeConn{id: id}
	o.OnConnect(testUser(name), conn)
	return conn
}
