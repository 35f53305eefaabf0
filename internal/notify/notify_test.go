package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/config"
)

func captureServer(t *testing.T, got *payload) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(body, got); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fieldValue(p payload, name string) (string, bool) {
	for _, e := range p.Embeds {
		for _, f := range e.Fields {
			if f.Name == name {
				return f.Value, true
			}
		}
	}
	return "", false
}

func TestPostSignupOmitsCredentials(t *testing.T) {
	var got payload
	srv := captureServer(t, &got)

	n := New(config.Webhooks{Signup: srv.URL}, zap.NewNop())
	n.PostSignup("alice", "alice@example.com")

	if len(got.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(got.Embeds))
	}
	if v, ok := fieldValue(got, "Username"); !ok || v != "alice" {
		t.Errorf("username field = %q, ok=%v", v, ok)
	}
	if _, ok := fieldValue(got, "Password"); ok {
		t.Error("payload must not carry a password field")
	}
	if _, ok := fieldValue(got, "IP Address"); ok {
		t.Error("payload must not carry an IP field")
	}
}

func TestPostWinFields(t *testing.T) {
	var got payload
	srv := captureServer(t, &got)

	n := New(config.Webhooks{Win: srv.URL}, zap.NewNop())
	n.PostWin("bob", "Slots", 50, 1250)

	if got.Username != "Win Logger" {
		t.Errorf("payload username = %q", got.Username)
	}
	checks := map[string]string{
		"Username":   "bob",
		"Game":       "Slots",
		"Bet Amount": "50",
		"Win Amount": "1250",
		"Profit":     "1200",
	}
	for name, want := range checks {
		if v, ok := fieldValue(got, name); !ok || v != want {
			t.Errorf("field %s = %q, want %q", name, v, want)
		}
	}
}

func TestPostWinGuestFallback(t *testing.T) {
	var got payload
	srv := captureServer(t, &got)

	n := New(config.Webhooks{Win: srv.URL}, zap.NewNop())
	n.PostWin("", "Mines", 50, 134)

	if v, _ := fieldValue(got, "Username"); v != "Guest" {
		t.Errorf("username field = %q, want Guest", v)
	}
}

func TestPostCheat(t *testing.T) {
	var got payload
	srv := captureServer(t, &got)

	n := New(config.Webhooks{Cheat: srv.URL}, zap.NewNop())
	n.PostCheat("carol", "force_jackpot")

	if v, _ := fieldValue(got, "Cheat Type"); v != "force_jackpot" {
		t.Errorf("cheat type field = %q", v)
	}
}

func TestEmptyURLIsNoop(t *testing.T) {
	n := New(config.Webhooks{}, zap.NewNop())
	// Must not panic or attempt any network call.
	n.PostSignup("alice", "alice@example.com")
	n.PostWin("alice", "Roulette", 50, 700)
	n.PostBan("alice", "")
	n.PostCheat("alice", "mines_esp")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := New(config.Webhooks{Ban: srv.URL}, zap.NewNop())
	n.PostBan("dave", "dave@example.com")

	// Also a URL nothing listens on.
	n2 := New(config.Webhooks{Ban: "http://127.0.0.1:1/" + strings.Repeat("x", 4)}, zap.NewNop())
	n2.PostBan("dave", "")
}
