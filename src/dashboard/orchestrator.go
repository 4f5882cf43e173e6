package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"tradeconsole/src/backtest"
	"tradeconsole/src/connectors"
	"tradeconsole/src/model"
)

// EngineAPI is the slice of the engine client a detail view drives.
type EngineAPI interface {
	GetSession(ctx context.Context, id int64) (*model.Session, error)
	StartSession(ctx context.Context, id int64) error
	StartLegacy(ctx context.Context, mode model.TradingMode) error
	Ping(ctx context.Context) error
	GetAccount(ctx context.Context, identity model.SessionIdentity) (*model.AccountSnapshot, error)
	GetHoldings(ctx context.Context, identity model.SessionIdentity) ([]model.Holding, error)
	GetTrades(ctx context.Context, identity model.SessionIdentity, limit int) ([]model.Trade, error)
	ListSessionStrategies(ctx context.Context, id int64) ([]model.StrategyBinding, error)
	AddSessionTicker(ctx context.Context, id int64, symbol string) error
	RemoveSessionTicker(ctx context.Context, id int64, symbol string) error
	ToggleSessionStrategy(ctx context.Context, id int64, name string) error
	RunBacktest(ctx context.Context, id int64, req model.BacktestRequest) (*model.BacktestResult, error)
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// OnlineState is the detail view's engine indicator.
type OnlineState string

const (
	StateInitializing OnlineState = "INITIALIZING"
	StateOnline       OnlineState = "ONLINE"
	StateOffline      OnlineState = "OFFLINE"
	StateError        OnlineState = "ERROR"
)

// Snapshot is the result of one complete data-poll tick. It is replaced
// wholesale, never patched, so the view shows either this tick or the
// previous one but never a mix of the two.
type Snapshot struct {
	Generation uint64                  `json:"generation"`
	FetchedAt  time.Time               `json:"fetched_at"`
	Account    model.AccountSnapshot   `json:"account"`
	Holdings   []model.Holding         `json:"holdings"`
	Trades     []model.Trade           `json:"trades"`
	Strategies []model.StrategyBinding `json:"strategies"`
}

// Notice is a dismissible error surfaced to the user after a failed
// mutation. Poll failures never become notices.
type Notice struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Orchestrator owns a single detail view: the polling loops, the session's
// displayed state, and the reconciliation of user mutations against the
// background refresh. All engine state stays engine-owned; the orchestrator
// holds a read-mostly projection of the last confirmed fetch.
type Orchestrator struct {
	client   EngineAPI
	identity model.SessionIdentity
	confirm  ConfirmFunc
	config   Config
	log      *logger.Entry

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      OnlineState
	session    *model.Session
	snap       Snapshot
	generation uint64
	notices    []Notice

	onSnapshot func(Snapshot)

	btRunning  bool
	btResult   *model.BacktestResult
	btSelected string
}

func NewOrchestrator(client EngineAPI, identity model.SessionIdentity, confirm ConfirmFunc, config Config) *Orchestrator {
	if confirm == nil {
		confirm = func(string) bool { return false }
	}
	return &Orchestrator{
		client:   client,
		identity: identity,
		confirm:  confirm,
		config:   config,
		log:      logger.WithField("session_id", identity.SessionID()),
		state:    StateInitializing,
	}
}

// OnSnapshot registers a callback invoked after every applied tick. Must be
// set before Start.
func (o *Orchestrator) OnSnapshot(fn func(Snapshot)) {
	o.onSnapshot = fn
}

// Start runs the entry sequence and launches both polling loops. The loops
// stop when ctx is cancelled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	o.initialize(ctx)

	o.wg.Add(2)
	go o.statusLoop(ctx)
	go o.dataLoop(ctx)
}

// Stop cancels both loops and waits for them to drain. In-flight responses
// landing after cancellation are discarded by the generation check.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

func (o *Orchestrator) initialize(ctx context.Context) {
	if o.identity.HasSession() {
		session, err := o.client.GetSession(ctx, o.identity.SessionID())
		if err != nil {
			o.log.WithError(err).Error("failed to load session metadata")
		} else {
			o.mu.Lock()
			o.session = session
			o.mu.Unlock()
		}

		err = o.client.StartSession(ctx, o.identity.SessionID())
		if err != nil && !connectors.IsAlreadyRunning(err) {
			o.log.WithError(err).Error("failed to start session")
			o.setState(StateError)
			o.refreshData(ctx)
			return
		}
		o.setState(StateOnline)
	} else {
		if err := o.client.StartLegacy(ctx, o.identity.Mode()); err != nil {
			o.log.WithError(err).Error("failed to start legacy engine")
			o.setState(StateError)
			o.refreshData(ctx)
			return
		}
		o.setState(StateOnline)
	}

	o.refreshData(ctx)
}

// statusLoop re-checks the engine indicator only. It never touches the data
// snapshot, so a hung status call costs nothing but indicator staleness.
func (o *Orchestrator) statusLoop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.config.StatusPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.refreshStatus(ctx)
		}
	}
}

func (o *Orchestrator) refreshStatus(ctx context.Context) {
	if o.identity.HasSession() {
		session, err := o.client.GetSession(ctx, o.identity.SessionID())
		if err != nil {
			o.setState(StateError)
			return
		}

		o.mu.Lock()
		o.session = session
		o.mu.Unlock()

		switch session.Status {
		case model.SessionRunning:
			o.setState(StateOnline)
		case model.SessionError:
			o.setState(StateError)
		default:
			o.setState(StateOffline)
		}
		return
	}

	if err := o.client.Ping(ctx); err != nil {
		o.setState(StateError)
		return
	}
	o.setState(StateOnline)
}

// dataLoop fetches account, holdings and trades on a fixed period and
// applies each tick atomically.
func (o *Orchestrator) dataLoop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.config.DataPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.refreshData(ctx)
		}
	}
}

// refreshData runs one data tick: the per-identity fetches are issued
// together, and the snapshot is applied only when every one of them
// succeeded and no later tick has been applied in the meantime.
func (o *Orchestrator) refreshData(ctx context.Context) {
	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	var (
		account    *model.AccountSnapshot
		holdings   []model.Holding
		trades     []model.Trade
		strategies []model.StrategyBinding

		accountErr    error
		holdingsErr   error
		tradesErr     error
		strategiesErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		account, accountErr = o.client.GetAccount(ctx, o.identity)
	}()
	go func() {
		defer wg.Done()
		holdings, holdingsErr = o.client.GetHoldings(ctx, o.identity)
	}()
	go func() {
		defer wg.Done()
		trades, tradesErr = o.client.GetTrades(ctx, o.identity, o.config.TradesLimit)
	}()

	if o.identity.HasSession() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			strategies, strategiesErr = o.client.ListSessionStrategies(ctx, o.identity.SessionID())
		}()
	}
	wg.Wait()

	for _, err := range []error{accountErr, holdingsErr, tradesErr, strategiesErr} {
		if err != nil {
			// transient hiccup: keep the previous tick on screen
			o.log.WithError(err).Debug("data tick discarded")
			return
		}
	}

	snap := Snapshot{
		Generation: gen,
		FetchedAt:  time.Now(),
		Account:    *account,
		Holdings:   holdings,
		Trades:     trades,
		Strategies: strategies,
	}
	o.applySnapshot(snap)
}

// applySnapshot installs a tick's result unless a later tick already landed.
func (o *Orchestrator) applySnapshot(snap Snapshot) {
	o.mu.Lock()
	if snap.Generation <= o.snap.Generation {
		o.mu.Unlock()
		return
	}
	o.snap = snap
	callback := o.onSnapshot
	o.mu.Unlock()

	if callback != nil {
		callback(snap)
	}
}

// refreshStrategies replaces only the strategy slice of the current
// snapshot, used after a toggle.
func (o *Orchestrator) refreshStrategies(ctx context.Context) {
	if !o.identity.HasSession() {
		return
	}
	strategies, err := o.client.ListSessionStrategies(ctx, o.identity.SessionID())
	if err != nil {
		o.log.WithError(err).Debug("strategy refresh discarded")
		return
	}

	o.mu.Lock()
	o.snap.Strategies = strategies
	o.mu.Unlock()
}

// -----------------------------
// MUTATIONS (mutate-then-refresh)
// -----------------------------

// AddTicker adds one symbol to the session watchlist, then refreshes
// out-of-band so the change shows before the next scheduled tick.
func (o *Orchestrator) AddTicker(ctx context.Context, symbol string) error {
	if !o.identity.HasSession() {
		return nil
	}
	if err := o.client.AddSessionTicker(ctx, o.identity.SessionID(), symbol); err != nil {
		o.notify("Error adding ticker: " + connectors.Detail(err))
		return err
	}
	o.refreshData(ctx)
	return nil
}

// AddTickers commits a search basket as a batch of single adds, stopping at
// the first failure.
func (o *Orchestrator) AddTickers(ctx context.Context, symbols []string) error {
	if !o.identity.HasSession() {
		return nil
	}
	for _, symbol := range symbols {
		if err := o.client.AddSessionTicker(ctx, o.identity.SessionID(), symbol); err != nil {
			o.notify("Error adding tickers: " + connectors.Detail(err))
			o.refreshData(ctx)
			return err
		}
	}
	o.refreshData(ctx)
	return nil
}

// RemoveTicker removes a symbol from the watchlist. The engine call is never
// issued unless the user confirmed.
func (o *Orchestrator) RemoveTicker(ctx context.Context, symbol string) error {
	if !o.identity.HasSession() {
		return nil
	}
	if !o.confirm("Remove " + symbol + " from watchlist?") {
		return nil
	}
	if err := o.client.RemoveSessionTicker(ctx, o.identity.SessionID(), symbol); err != nil {
		o.notify("Error removing ticker: " + connectors.Detail(err))
		return err
	}
	o.refreshData(ctx)
	return nil
}

// ToggleStrategy flips a strategy binding and re-fetches only the strategy
// list. The scheduled loop re-confirms the rest on its next tick.
func (o *Orchestrator) ToggleStrategy(ctx context.Context, name string) error {
	if !o.identity.HasSession() {
		return nil
	}
	if err := o.client.ToggleSessionStrategy(ctx, o.identity.SessionID(), name); err != nil {
		o.notify("Failed to toggle strategy: " + connectors.Detail(err))
		return err
	}
	o.refreshStrategies(ctx)
	return nil
}

// -----------------------------
// ACCESSORS
// -----------------------------

func (o *Orchestrator) Identity() model.SessionIdentity {
	return o.identity
}

func (o *Orchestrator) State() OnlineState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Session() *model.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Snapshot returns the last fully applied data tick.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

func (o *Orchestrator) Notices() []Notice {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Notice(nil), o.notices...)
}

// Dismiss drops a notice by id.
func (o *Orchestrator) Dismiss(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.notices[:0]
	for _, n := range o.notices {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	o.notices = kept
}

func (o *Orchestrator) setState(state OnlineState) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) notify(message string) {
	o.mu.Lock()
	o.notices = append(o.notices, Notice{
		ID:      uuid.NewString(),
		Message: message,
		At:      time.Now(),
	})
	o.mu.Unlock()
}

// -----------------------------
// BACKTEST SUB-FLOW
// -----------------------------

// ErrBacktestRunning is returned when a run is requested while another one
// is still in flight.
var ErrBacktestRunning = errors.New("backtest already running")

// RunBacktest submits the session's date range with nil strategies and
// tickers so the engine resolves the session's own bindings. Re-submission
// while a run is in flight fails with ErrBacktestRunning; a failed run
// leaves the prior result untouched.
func (o *Orchestrator) RunBacktest(ctx context.Context, startDate, endDate string) error {
	if !o.identity.HasSession() {
		return nil
	}

	o.mu.Lock()
	if o.btRunning {
		o.mu.Unlock()
		return ErrBacktestRunning
	}
	o.btRunning = true
	balance := o.config.BacktestBalance
	if o.session != nil && o.session.InitialBalance > 0 {
		balance = o.session.InitialBalance
	}
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.btRunning = false
		o.mu.Unlock()
	}()

	result, err := o.client.RunBacktest(ctx, o.identity.SessionID(), model.BacktestRequest{
		StartDate:      startDate,
		EndDate:        endDate,
		Strategies:     nil,
		Tickers:        nil,
		InitialBalance: balance,
	})
	if err != nil {
		o.notify("Backtest failed: " + connectors.Detail(err))
		return err
	}

	o.mu.Lock()
	o.btResult = result
	o.btSelected = backtest.DefaultTicker(result)
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) BacktestRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.btRunning
}

func (o *Orchestrator) BacktestResult() *model.BacktestResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.btResult
}

// SelectTicker switches the chart to another of the result's tickers.
// Unknown tickers are ignored.
func (o *Orchestrator) SelectTicker(ticker string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.btResult == nil {
		return
	}
	if _, ok := o.btResult.DailyPrices[ticker]; !ok {
		return
	}
	o.btSelected = ticker
}

func (o *Orchestrator) SelectedTicker() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.btSelected
}

// ChartData projects the stored result for the selected ticker.
func (o *Orchestrator) ChartData() []backtest.ChartPoint {
	o.mu.Lock()
	result := o.btResult
	selected := o.btSelected
	o.mu.Unlock()

	return backtest.ProjectChart(result, selected)
}
