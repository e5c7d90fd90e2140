package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meutreino/skill/internal/coach"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and headers.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "k" {
			t.Errorf("X-API-Key = %q, want k", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestDispatch verifies the client posts the turn body to the operation path
// and decodes the prompt.
func TestDispatch(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/turns/start": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			var req coach.Request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if req.UserID != "u1" || req.WorkoutName != "Treino A" || !req.Permissions.Lists {
				t.Errorf("request = %+v", req)
			}
			writeTestJSON(t, w, coach.Prompt{Kind: coach.PromptStarted, Speech: "ok", EndSession: true})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL+"/", "k")
	prompt, err := client.Dispatch(context.Background(), coach.OpStart, coach.Request{
		Identity:    coach.Identity{UserID: "u1", Permissions: coach.Permissions{Lists: true}},
		WorkoutName: "Treino A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prompt.Kind != coach.PromptStarted || !prompt.EndSession {
		t.Errorf("prompt = %+v", prompt)
	}
}

// TestDispatchUnknownOperation verifies a 404 maps to ErrUnknownOperation.
func TestDispatchUnknownOperation(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/turns/dance": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "k").Dispatch(context.Background(), "dance", coach.Request{})
	if !errors.Is(err, coach.ErrUnknownOperation) {
		t.Errorf("err = %v, want ErrUnknownOperation", err)
	}
}

// TestDispatchServerError verifies non-200 responses surface as errors.
func TestDispatchServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/turns/interval": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	if _, err := NewHTTPClient(ts.URL, "k").Dispatch(context.Background(), coach.OpInterval, coach.Request{}); err == nil {
		t.Error("expected error for 500 response")
	}
}

// TestSession verifies the session view is returned verbatim.
func TestSession(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/u1": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, map[string]string{"status": "active"})
		},
	})
	defer ts.Close()

	raw, err := NewHTTPClient(ts.URL, "k").Session(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var view map[string]string
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view["status"] != "active" {
		t.Errorf("status = %q, want active", view["status"])
	}
}
