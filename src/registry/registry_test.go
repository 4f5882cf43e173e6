package registry

// Test index:
//  1. TestRefreshFiltersMode keeps only this view's trading mode.
//  2. TestCreateValidation blocks invalid requests before any engine call.
//  3. TestCreateStampsModeAndRefreshes submits with the view's mode and re-lists.
//  4. TestDeleteConfirmGated issues no call when the user declines.
//  5. TestToggleFromDisplayedStatus starts or stops based on the listed status.
//  6. TestToggleUnknownSession rejects ids not in the current listing.

import (
	"context"
	"errors"
	"testing"

	"tradeconsole/src/model"
)

type mockAdmin struct {
	sessions  []model.Session
	listErr   error
	createErr error

	created   []model.CreateSessionRequest
	deleted   []int64
	started   []int64
	stopped   []int64
	listCalls int
	deleteErr error
	startErr  error
	stopErr   error
}

func (m *mockAdmin) ListSessions(context.Context) ([]model.Session, error) {
	m.listCalls++
	return m.sessions, m.listErr
}

func (m *mockAdmin) CreateSession(_ context.Context, req model.CreateSessionRequest) (*model.Session, error) {
	m.created = append(m.created, req)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &model.Session{ID: 99, Name: req.Name, Mode: req.Mode}, nil
}

func (m *mockAdmin) DeleteSession(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockAdmin) StartSession(_ context.Context, id int64) error {
	m.started = append(m.started, id)
	return m.startErr
}

func (m *mockAdmin) StopSession(_ context.Context, id int64) error {
	m.stopped = append(m.stopped, id)
	return m.stopErr
}

func accept(string) bool { return true }

func decline(string) bool { return false }

func TestRefreshFiltersMode(t *testing.T) {
	admin := &mockAdmin{sessions: []model.Session{
		{ID: 1, Name: "paper-one", Mode: model.ModePaper},
		{ID: 2, Name: "live-one", Mode: model.ModeLive},
		{ID: 3, Name: "paper-two", Mode: model.ModePaper},
	}}
	registry := NewRegistry(admin, model.ModePaper, accept)

	if err := registry.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	sessions := registry.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 paper sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.Mode != model.ModePaper {
			t.Fatalf("live session leaked into the paper view: %+v", s)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	admin := &mockAdmin{}
	registry := NewRegistry(admin, model.ModePaper, accept)

	err := registry.Create(context.Background(), model.CreateSessionRequest{
		Name:    "T1",
		Tickers: []string{"AAPL"},
	})
	if !errors.Is(err, ErrMissingStrategy) {
		t.Fatalf("expected missing-strategy error, got %v", err)
	}

	err = registry.Create(context.Background(), model.CreateSessionRequest{
		Name:         "T1",
		BuyStrategy:  "momentum",
		SellStrategy: "mean_reversion",
	})
	if !errors.Is(err, ErrNoTickers) {
		t.Fatalf("expected no-tickers error, got %v", err)
	}

	if len(admin.created) != 0 {
		t.Fatalf("validation failures must not reach the engine, got %d calls", len(admin.created))
	}
}

func TestCreateStampsModeAndRefreshes(t *testing.T) {
	admin := &mockAdmin{}
	registry := NewRegistry(admin, model.ModePaper, accept)

	err := registry.Create(context.Background(), model.CreateSessionRequest{
		Name:           "T1",
		BuyStrategy:    "momentum",
		SellStrategy:   "mean_reversion",
		Tickers:        []string{"AAPL"},
		InitialBalance: 10000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(admin.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(admin.created))
	}
	if admin.created[0].Mode != model.ModePaper {
		t.Fatalf("expected the view's mode stamped on the request, got %q", admin.created[0].Mode)
	}
	if admin.listCalls != 1 {
		t.Fatalf("expected a re-list after create, got %d list calls", admin.listCalls)
	}

	// duplicate names come back as the engine's own message
	admin.createErr = errors.New("engine HTTP 400: session name already exists")
	err = registry.Create(context.Background(), model.CreateSessionRequest{
		Name:         "T1",
		BuyStrategy:  "momentum",
		SellStrategy: "mean_reversion",
		Tickers:      []string{"AAPL"},
	})
	if err == nil || err.Error() != "engine HTTP 400: session name already exists" {
		t.Fatalf("expected the engine's rejection verbatim, got %v", err)
	}
}

func TestDeleteConfirmGated(t *testing.T) {
	admin := &mockAdmin{}
	declined := NewRegistry(admin, model.ModePaper, decline)

	if err := declined.Delete(context.Background(), 4); err != nil {
		t.Fatalf("declined delete must be a silent no-op: %v", err)
	}
	if len(admin.deleted) != 0 {
		t.Fatalf("declined delete must not reach the engine, got %v", admin.deleted)
	}

	confirmed := NewRegistry(admin, model.ModePaper, accept)
	if err := confirmed.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(admin.deleted) != 1 || admin.deleted[0] != 4 {
		t.Fatalf("expected session 4 deleted, got %v", admin.deleted)
	}
	if admin.listCalls != 1 {
		t.Fatalf("expected a re-list after delete, got %d list calls", admin.listCalls)
	}
}

func TestToggleFromDisplayedStatus(t *testing.T) {
	admin := &mockAdmin{sessions: []model.Session{
		{ID: 1, Mode: model.ModePaper, Status: model.SessionRunning},
		{ID: 2, Mode: model.ModePaper, Status: model.SessionStopped},
	}}
	registry := NewRegistry(admin, model.ModePaper, accept)

	if err := registry.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if err := registry.ToggleStatus(context.Background(), 1); err != nil {
		t.Fatalf("toggle of a running session failed: %v", err)
	}
	if len(admin.stopped) != 1 || admin.stopped[0] != 1 {
		t.Fatalf("expected a running session to be stopped, got %v", admin.stopped)
	}

	if err := registry.ToggleStatus(context.Background(), 2); err != nil {
		t.Fatalf("toggle of a stopped session failed: %v", err)
	}
	if len(admin.started) != 1 || admin.started[0] != 2 {
		t.Fatalf("expected a stopped session to be started, got %v", admin.started)
	}
}

func TestToggleUnknownSession(t *testing.T) {
	admin := &mockAdmin{}
	registry := NewRegistry(admin, model.ModePaper, accept)

	if err := registry.ToggleStatus(context.Background(), 42); err == nil {
		t.Fatalf("expected an error for a session not in the listing")
	}
	if len(admin.started) != 0 && len(admin.stopped) != 0 {
		t.Fatalf("unknown sessions must not reach the engine")
	}
}
