package signal_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	router "github.com/Professor-FernandoLopes/discordBackend/internal/adapters/http"
	"github.com/Professor-FernandoLopes/discordBackend/internal/adapters/signal"
	"github.com/Professor-FernandoLopes/discordBackend/internal/app"
	"github.com/Professor-FernandoLopes/discordBackend/internal/config"
	"github.com/Professor-FernandoLopes/discordBackend/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:         "release",
		Port:         0,
		StaticPath:   "./testdata",
		ReadLimit:    32768,
		SendBuffer:   32,
		Heartbeat:    8 * time.Second,
		Secret:       "test-secret",
		RateLimit:    256,
		RateInterval: time.Second,
	}
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := testConfig()
	orch := app.NewOrchestrator(core.NewDirectory(), core.NewRoomTable(), app.NoopStore{})
	ctl := signal.NewController(cfg, orch, router.CookieAuthenticator{})
	srv := httptest.NewServer(router.SetupRouter(ctx, cfg, ctl))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?name=" + name
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", name, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readUntil reads frames until pred accepts one, skipping unrelated pushes.
func readUntil(t *testing.T, ws *websocket.Conn, what string, pred func(map[string]any) bool) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	ws.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: read error: %v", what, err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("waiting for %s: bad frame %q: %v", what, data, err)
		}
		if pred(m) {
			return m
		}
	}
	t.Fatalf("timed out waiting for %s", what)
	return nil
}

func typed(typ string) func(map[string]any) bool {
	return func(m map[string]any) bool { return m["type"] == typ }
}

func onlineCount(n int) func(map[string]any) bool {
	return func(m map[string]any) bool {
		if m["type"] != app.PushOnlineUsers {
			return false
		}
		list, _ := m["online_users"].([]any)
		return len(list) == n
	}
}

func send(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	if err := ws.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSignalingRoundTrip(t *testing.T) {
	srv := startServer(t)

	alice := dial(t, srv, "alice")
	aliceHello := readUntil(t, alice, "alice whoami", typed(app.PushWhoAmI))
	aliceConn := aliceHello["conn"].(string)

	bob := dial(t, srv, "bob")
	readUntil(t, bob, "bob presence", onlineCount(2))
	bobHello := readUntil(t, bob, "bob whoami", typed(app.PushWhoAmI))
	bobConn := bobHello["conn"].(string)

	// Alice also learns that bob is online.
	readUntil(t, alice, "alice presence update", onlineCount(2))

	// Alice opens a room.
	send(t, alice, map[string]any{"type": app.EventRoomCreate})
	created := readUntil(t, alice, "room-created", typed(app.PushRoomCreated))
	roomID := created["room"].(string)
	if roomID == "" {
		t.Fatal("room-created without a room id")
	}

	// Bob joins; alice is told who arrived.
	send(t, bob, map[string]any{"type": app.EventRoomJoin, "room": roomID})
	joined := readUntil(t, alice, "participant-joined", typed(app.PushParticipantIn))
	if joined["conn"] != bobConn {
		t.Errorf("participant-joined conn = %v, want %v", joined["conn"], bobConn)
	}

	// Alice initiates signaling toward bob; the offer arrives verbatim.
	offer := map[string]any{"type": "offer", "sdp": "X"}
	send(t, alice, map[string]any{
		"type":    app.EventConnInit,
		"room":    roomID,
		"to":      bobConn,
		"payload": offer,
	})
	init := readUntil(t, bob, "conn-init", typed(app.PushConnInit))
	if init["from"] != aliceConn {
		t.Errorf("conn-init from = %v, want %v", init["from"], aliceConn)
	}
	gotOffer, _ := json.Marshal(init["payload"])
	wantOffer, _ := json.Marshal(offer)
	if string(gotOffer) != string(wantOffer) {
		t.Errorf("offer modified in transit: got %s want %s", gotOffer, wantOffer)
	}

	// Signaling to a connection outside the room is rejected.
	send(t, alice, map[string]any{
		"type":    app.EventConnSignal,
		"room":    roomID,
		"to":      "not-a-member",
		"payload": map[string]any{"candidate": "c"},
	})
	errPush := readUntil(t, alice, "not_a_member error", typed(app.PushError))
	if errPush["error"] != "not_a_member" {
		t.Errorf("error = %v, want not_a_member", errPush["error"])
	}

	// Bob drops; alice hears the departure and the shrunken presence list.
	bob.Close()
	left := readUntil(t, alice, "participant-left", typed(app.PushParticipantOut))
	if left["conn"] != bobConn {
		t.Errorf("participant-left conn = %v, want %v", left["conn"], bobConn)
	}
	readUntil(t, alice, "presence after disconnect", onlineCount(1))
}

func TestJoinUnknownRoomRejected(t *testing.T) {
	srv := startServer(t)
	alice := dial(t, srv, "alice")
	readUntil(t, alice, "whoami", typed(app.PushWhoAmI))

	send(t, alice, map[string]any{"type": app.EventRoomJoin, "room": "no-such-room"})
	errPush := readUntil(t, alice, "room_not_found error", typed(app.PushError))
	if errPush["error"] != "room_not_found" {
		t.Errorf("error = %v, want room_not_found", errPush["error"])
	}
}

func TestUnknownEventRejected(t *testing.T) {
	srv := startServer(t)
	alice := dial(t, srv, "alice")
	readUntil(t, alice, "whoami", typed(app.PushWhoAmI))

	send(t, alice, map[string]any{"type": "make-coffee"})
	errPush := readUntil(t, alice, "unknown_event error", typed(app.PushError))
	if errPush["error"] != "unknown_event" {
		t.Errorf("error = %v, want unknown_event", errPush["error"])
	}
}

func TestPingPong(t *testing.T) {
	srv := startServer(t)
	alice := dial(t, srv, "alice")

	send(t, alice, map[string]any{"type": app.EventPing})
	readUntil(t, alice, "pong", typed(app.PushPong))
}
