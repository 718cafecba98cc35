package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
)

func newTestServer(t *testing.T, rules Rules) (*httptest.Server, *Machine) {
	t.Helper()

	cfg := validConfig()
	store := newStore(filepath.Join(t.TempDir(), "save.json"))
	m, err := newMachine(cfg, rules, store, &stubSource{questions: testQuestions(5)}, newClock(clockwork.NewRealClock(), 10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 64)
	mux := httprouter.New()
	registerRoutes(cfg, m, mux, errs)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = m.Run(ctx)
	}()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	return srv, m
}

func readPhase(t *testing.T, conn *websocket.Conn, want Phase) PhaseParams {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Action == "setPhase" && msg.Params.Phase == want {
			return *msg.Params
		}
	}
}

func TestWebSocket_JoinStartsGame(t *testing.T) {
	rules := testRules()
	rules.MinPlayers = 1
	rules.IdealPlayers = 1
	rules.WaitTime = 1

	srv, _ := newTestServer(t, rules)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Garbage is dropped silently and must not break the connection.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]string{"action": "joinPlayer", "player": "solo"}); err != nil {
		t.Fatal(err)
	}

	params := readPhase(t, conn, PhaseGameInstructions)
	if len(params.Game.Players) != 1 || params.Game.Players[0].Name != "solo" {
		t.Errorf("players %+v, want solo", params.Game.Players)
	}
	if !params.Game.Ready {
		t.Error("round-ready banner should be raised")
	}

	if err := conn.WriteJSON(map[string]string{"action": "reportReady", "player": "solo"}); err != nil {
		t.Fatal(err)
	}
	readPhase(t, conn, PhaseRoundStart)
}

func TestReset_Endpoint(t *testing.T) {
	rules := testRules()
	rules.MinPlayers = 1

	srv, m := newTestServer(t, rules)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"action": "joinPlayer", "player": "solo"}); err != nil {
		t.Fatal(err)
	}
	readPhase(t, conn, PhaseGameInstructions)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/reset")
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK || string(body) != "reset" {
			t.Errorf("reset #%d: %d %q", i+1, resp.StatusCode, body)
		}
	}

	readPhase(t, conn, PhaseGameWaiting)

	if _, found, err := m.store.Load(); err != nil || !found {
		t.Errorf("reset should leave a fresh snapshot: found=%v err=%v", found, err)
	}
}

func TestStaticRoutes(t *testing.T) {
	srv, _ := newTestServer(t, testRules())

	for path, want := range map[string]string{
		"/healthz":               "text/plain",
		"/version":               "text/plain",
		"/robots.txt":            "text/plain",
		"/":                      "text/html",
		"/assets/trivia/app.js":  "application/javascript",
		"/assets/trivia/app.css": "text/css",
		"/qr":                    "image/png",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, want) {
			t.Errorf("%s: content type %q, want %s", path, got, want)
		}
		if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s: missing security headers", path)
		}
	}
}

func TestJoinURL(t *testing.T) {
	cfg := validConfig()
	cfg.prefix = "/quiz"

	r := httptest.NewRequest(http.MethodGet, "http://example.com/quiz/qr", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	if got := joinURL(cfg, r); got != "https://example.com/quiz/" {
		t.Errorf("joinURL = %q, want https://example.com/quiz/", got)
	}
}
