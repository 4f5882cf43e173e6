package server

import (
	"context"
	"sync"

	"tradeconsole/src/connectors"
	"tradeconsole/src/dashboard"
	"tradeconsole/src/model"
	"tradeconsole/src/registry"
	"tradeconsole/src/search"
)

// confirmed is the confirm hook used for requests arriving over HTTP: the
// browser shows its own confirmation dialog before issuing the destructive
// request, so an explicit request counts as confirmed.
func confirmed(string) bool { return true }

// Console wires the engine client, the per-mode registries, the search
// assistant and at most one open detail view behind the HTTP surface.
type Console struct {
	client    *connectors.EngineClient
	config    dashboard.Config
	assistant *search.Assistant

	registries map[model.TradingMode]*registry.Registry

	// opMu serializes open/close so a displaced view is always stopped
	// before its successor starts polling
	opMu sync.Mutex

	mu   sync.Mutex
	view *dashboard.Orchestrator
	hub  *streamHub
}

func NewConsole(client *connectors.EngineClient, config dashboard.Config) *Console {
	return &Console{
		client:    client,
		config:    config,
		assistant: search.NewAssistant(client, config.SearchDebounce),
		registries: map[model.TradingMode]*registry.Registry{
			model.ModePaper: registry.NewRegistry(client, model.ModePaper, confirmed),
			model.ModeLive:  registry.NewRegistry(client, model.ModeLive, confirmed),
		},
		hub: newStreamHub(),
	}
}

func (c *Console) registryFor(mode model.TradingMode) (*registry.Registry, bool) {
	r, ok := c.registries[mode]
	return r, ok
}

// OpenView closes any previous detail view and starts a new orchestrator for
// the given identity. The previous view's loops are cancelled first so two
// views never poll at once. The loops run on a background context because
// they must outlive the request that opened the view.
func (c *Console) OpenView(identity model.SessionIdentity) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	previous := c.view
	c.view = nil
	c.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}

	view := dashboard.NewOrchestrator(c.client, identity, confirmed, c.config)
	view.OnSnapshot(c.hub.broadcast)
	view.Start(context.Background())

	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
}

// CloseView tears the current detail view down, cancelling its timers.
func (c *Console) CloseView() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	view := c.view
	c.view = nil
	c.mu.Unlock()

	if view != nil {
		view.Stop()
	}
}

// View returns the open detail view, or nil.
func (c *Console) View() *dashboard.Orchestrator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}
