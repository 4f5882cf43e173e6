package registry

import (
	"context"
	"errors"
	"sync"

	logger "github.com/sirupsen/logrus"

	"tradeconsole/src/model"
)

// Validation failures blocked client-side before any engine call.
var (
	ErrMissingStrategy = errors.New("both a buy and a sell strategy must be selected")
	ErrNoTickers       = errors.New("at least one ticker is required")
)

// SessionAdmin is the slice of the engine client the registry needs.
type SessionAdmin interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
	CreateSession(ctx context.Context, req model.CreateSessionRequest) (*model.Session, error)
	DeleteSession(ctx context.Context, id int64) error
	StartSession(ctx context.Context, id int64) error
	StopSession(ctx context.Context, id int64) error
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// Registry is the session-list view for one trading mode. Every mutation is
// followed by a full re-list so the displayed status always reflects
// confirmed engine state, never an optimistic local edit.
type Registry struct {
	client  SessionAdmin
	mode    model.TradingMode
	confirm ConfirmFunc

	mu       sync.Mutex
	sessions []model.Session
}

func NewRegistry(client SessionAdmin, mode model.TradingMode, confirm ConfirmFunc) *Registry {
	if confirm == nil {
		confirm = func(string) bool { return false }
	}
	return &Registry{
		client:  client,
		mode:    mode,
		confirm: confirm,
	}
}

// Refresh re-lists sessions from the engine, keeping only this view's mode.
func (r *Registry) Refresh(ctx context.Context) error {
	sessions, err := r.client.ListSessions(ctx)
	if err != nil {
		return err
	}

	filtered := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Mode == r.mode {
			filtered = append(filtered, s)
		}
	}

	r.mu.Lock()
	r.sessions = filtered
	r.mu.Unlock()
	return nil
}

// Sessions returns the last confirmed listing.
func (r *Registry) Sessions() []model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Session(nil), r.sessions...)
}

// Create validates the request client-side, submits it with this view's
// mode, and re-lists. Duplicate-name rejections come back as the engine's
// detail message.
func (r *Registry) Create(ctx context.Context, req model.CreateSessionRequest) error {
	if len(req.Strategies) == 0 && (req.BuyStrategy == "" || req.SellStrategy == "") {
		return ErrMissingStrategy
	}
	if len(req.Tickers) == 0 {
		return ErrNoTickers
	}
	req.Mode = r.mode

	if _, err := r.client.CreateSession(ctx, req); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Delete asks for confirmation, then removes the session and re-lists. A
// declined confirmation issues no call at all.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	if !r.confirm("Delete this session?") {
		return nil
	}
	if err := r.client.DeleteSession(ctx, id); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// ToggleStatus starts or stops a session based on its currently displayed
// status, then re-lists. The toggle is computed from the listing the user is
// looking at, not a separately cached copy.
func (r *Registry) ToggleStatus(ctx context.Context, id int64) error {
	session, ok := r.displayed(id)
	if !ok {
		return errors.New("session not in current listing")
	}

	var err error
	if session.Status == model.SessionRunning {
		err = r.client.StopSession(ctx, id)
	} else {
		err = r.client.StartSession(ctx, id)
	}
	if err != nil {
		logger.WithError(err).WithField("session_id", id).Error("session toggle failed")
		return err
	}
	return r.Refresh(ctx)
}

func (r *Registry) displayed(id int64) (model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Session{}, false
}
