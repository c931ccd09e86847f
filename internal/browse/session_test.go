package browse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestSessionRefetchesAfterMutation(t *testing.T) {
	var listCalls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/keyboards":
			atomic.AddInt64(&listCalls, 1)
			json.NewEncoder(w).Encode(listResponse("corne"))
		case r.Method == http.MethodPost && r.URL.Path == "/api/admin/keyboards":
			json.NewEncoder(w).Encode(Keyboard{ID: 2, Name: "lily58"})
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "not found"})
		}
	}))
	defer srv.Close()

	session := NewSession(NewClient(srv.URL, nil))
	ctx := context.Background()

	if err := session.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if n := atomic.LoadInt64(&listCalls); n != 1 {
		t.Fatalf("list calls after start = %d, want 1", n)
	}

	draft := KeyboardDraft{
		Name:          "lily58",
		Link:          "https://example.com",
		KeyCountRange: "58",
		ImageName:     "lily.png",
		Image:         strings.NewReader("png"),
	}
	if _, err := session.CreateKeyboard(ctx, draft); err != nil {
		t.Fatalf("CreateKeyboard() error = %v", err)
	}
	if n := atomic.LoadInt64(&listCalls); n != 2 {
		t.Errorf("list calls after create = %d, want 2", n)
	}

	if err := session.DeleteKeyboard(ctx, 2); err != nil {
		t.Fatalf("DeleteKeyboard() error = %v", err)
	}
	if n := atomic.LoadInt64(&listCalls); n != 3 {
		t.Errorf("list calls after delete = %d, want 3", n)
	}
}

func TestSessionCloseResetsSelection(t *testing.T) {
	session := NewSession(NewClient("http://unused.invalid", nil))
	session.Compare.Toggle(kb(1, "corne"))
	session.Compare.Toggle(kb(2, "lily58"))
	session.Compare.OpenModal()
	session.Filters.Pending().Search = "corne"

	session.Close()

	if session.Compare.ModalOpen() || len(session.Compare.Keyboards()) != 0 {
		t.Error("selection survived session close")
	}
	if session.Filters.Pending().Search != "" {
		t.Error("pending filters survived session close")
	}
}
