package browse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func listResponse(names ...string) KeyboardList {
	kbs := make([]Keyboard, 0, len(names))
	for i, name := range names {
		kbs = append(kbs, Keyboard{ID: int64(i + 1), Name: name})
	}
	return KeyboardList{Keyboards: kbs, Total: len(kbs), Page: 1, TotalPages: 1}
}

func TestFetchPopulatesState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(KeyboardList{
			Keyboards:  []Keyboard{{ID: 7, Name: "corne"}},
			Total:      41,
			Page:       1,
			TotalPages: 3,
		})
	}))
	defer srv.Close()

	ctrl := NewListController(NewClient(srv.URL, nil), NewFilterStore(), 20)
	if ctrl.State() != StateIdle {
		t.Fatalf("initial state = %v, want StateIdle", ctrl.State())
	}

	if err := ctrl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if ctrl.State() != StateSuccess {
		t.Errorf("state = %v, want StateSuccess", ctrl.State())
	}
	if got := ctrl.Keyboards(); len(got) != 1 || got[0].Name != "corne" {
		t.Errorf("keyboards = %v, want [corne]", got)
	}
	if ctrl.Total() != 41 || ctrl.TotalPages() != 3 {
		t.Errorf("total/pages = %d/%d, want 41/3", ctrl.Total(), ctrl.TotalPages())
	}
}

// A response that arrives after a newer request was issued must be
// dropped entirely, even though it completes without error.
func TestStaleResponseIsDiscarded(t *testing.T) {
	slowArrived := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "slow" {
			close(slowArrived)
			<-release
			json.NewEncoder(w).Encode(listResponse("stale"))
			return
		}
		json.NewEncoder(w).Encode(listResponse("fresh"))
	}))
	defer srv.Close()

	store := NewFilterStore()
	ctrl := NewListController(NewClient(srv.URL, nil), store, 20)

	store.Pending().Search = "slow"
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.QuickSearch(context.Background())
	}()

	select {
	case <-slowArrived:
	case <-time.After(5 * time.Second):
		t.Fatal("slow request never reached the server")
	}

	// Supersede the in-flight request, then let the stale one finish.
	store.Pending().Search = "fast"
	if err := ctrl.QuickSearch(context.Background()); err != nil {
		t.Fatalf("second QuickSearch() error = %v", err)
	}
	close(release)
	wg.Wait()

	if got := ctrl.Keyboards(); len(got) != 1 || got[0].Name != "fresh" {
		t.Errorf("keyboards = %v, want [fresh]; stale response overwrote newer state", got)
	}
	if ctrl.State() != StateSuccess {
		t.Errorf("state = %v, want StateSuccess", ctrl.State())
	}
}

// A stale failure must not surface either: the error belongs to a
// request that no longer drives the view.
func TestStaleFailureIsDiscarded(t *testing.T) {
	slowArrived := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "slow" {
			close(slowArrived)
			<-release
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
			return
		}
		json.NewEncoder(w).Encode(listResponse("fresh"))
	}))
	defer srv.Close()

	store := NewFilterStore()
	ctrl := NewListController(NewClient(srv.URL, nil), store, 20)

	store.Pending().Search = "slow"
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.QuickSearch(context.Background())
	}()

	select {
	case <-slowArrived:
	case <-time.After(5 * time.Second):
		t.Fatal("slow request never reached the server")
	}

	store.Pending().Search = "fast"
	if err := ctrl.QuickSearch(context.Background()); err != nil {
		t.Fatalf("second QuickSearch() error = %v", err)
	}
	close(release)
	wg.Wait()

	if ctrl.State() != StateSuccess {
		t.Errorf("state = %v after stale failure, want StateSuccess", ctrl.State())
	}
	if ctrl.Err() != "" {
		t.Errorf("error message = %q after stale failure, want empty", ctrl.Err())
	}
}

func TestFailureKeepsPreviousResults(t *testing.T) {
	var fail bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "database unavailable"})
			return
		}
		json.NewEncoder(w).Encode(listResponse("corne", "lily58"))
	}))
	defer srv.Close()

	ctrl := NewListController(NewClient(srv.URL, nil), NewFilterStore(), 20)
	if err := ctrl.Fetch(context.Background()); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}

	fail = true
	if err := ctrl.Fetch(context.Background()); err == nil {
		t.Fatal("second Fetch() returned nil error")
	}

	if ctrl.State() != StateError {
		t.Errorf("state = %v, want StateError", ctrl.State())
	}
	if ctrl.Err() == "" {
		t.Error("error message empty after failed fetch")
	}
	if got := ctrl.Keyboards(); len(got) != 2 {
		t.Errorf("keyboards = %v after failure, want previous two results kept", got)
	}
}

func TestApplyCommitsAndRewindsPage(t *testing.T) {
	var mu sync.Mutex
	var queries []map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mu.Lock()
		queries = append(queries, map[string]string{
			"page":            q.Get("page"),
			"only_null_price": q.Get("only_null_price"),
		})
		mu.Unlock()
		json.NewEncoder(w).Encode(KeyboardList{Total: 60, Page: 1, TotalPages: 3})
	}))
	defer srv.Close()

	store := NewFilterStore()
	ctrl := NewListController(NewClient(srv.URL, nil), store, 20)

	if err := ctrl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := ctrl.SetPage(context.Background(), 3); err != nil {
		t.Fatalf("SetPage() error = %v", err)
	}
	if ctrl.Page() != 3 {
		t.Fatalf("page = %d, want 3", ctrl.Page())
	}

	store.Pending().PriceFilter = PriceDIYOnly
	if err := ctrl.Apply(context.Background()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if ctrl.Page() != 1 {
		t.Errorf("page = %d after Apply, want 1", ctrl.Page())
	}

	mu.Lock()
	defer mu.Unlock()
	last := queries[len(queries)-1]
	if last["page"] != "1" {
		t.Errorf("applied request page = %q, want %q", last["page"], "1")
	}
	if last["only_null_price"] != "true" {
		t.Errorf("applied request only_null_price = %q, want %q", last["only_null_price"], "true")
	}
}

func TestSetPageClamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(KeyboardList{Total: 40, Page: 1, TotalPages: 2})
	}))
	defer srv.Close()

	ctrl := NewListController(NewClient(srv.URL, nil), NewFilterStore(), 20)
	if err := ctrl.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if err := ctrl.SetPage(context.Background(), 99); err != nil {
		t.Fatalf("SetPage(99) error = %v", err)
	}
	if ctrl.Page() != 2 {
		t.Errorf("page = %d after SetPage(99), want clamp to 2", ctrl.Page())
	}

	if err := ctrl.SetPage(context.Background(), -4); err != nil {
		t.Fatalf("SetPage(-4) error = %v", err)
	}
	if ctrl.Page() != 1 {
		t.Errorf("page = %d after SetPage(-4), want clamp to 1", ctrl.Page())
	}
}
