package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradeconsole/src/backtest"
	"tradeconsole/src/connectors"
	"tradeconsole/src/dashboard"
	"tradeconsole/src/model"
	"tradeconsole/src/utils"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// writeError mirrors the engine's {"detail": ...} envelope so the browser
// handles console and engine failures the same way.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func remoteStatus(err error) int {
	if remote, ok := connectors.AsRemoteError(err); ok {
		return remote.Status
	}
	return http.StatusBadGateway
}

func parseMode(raw string) (model.TradingMode, bool) {
	switch model.TradingMode(raw) {
	case model.ModePaper:
		return model.ModePaper, true
	case model.ModeLive:
		return model.ModeLive, true
	}
	return "", false
}

// ListSessionsHandler re-lists sessions for one mode and returns the
// confirmed listing.
func (c *Console) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be PAPER or LIVE")
		return
	}
	reg, _ := c.registryFor(mode)

	if err := reg.Refresh(r.Context()); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, reg.Sessions())
}

func (c *Console) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session payload")
		return
	}
	mode, ok := parseMode(string(req.Mode))
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be PAPER or LIVE")
		return
	}
	reg, _ := c.registryFor(mode)

	if err := reg.Create(r.Context(), req); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusCreated, reg.Sessions())
}

func (c *Console) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be PAPER or LIVE")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	reg, _ := c.registryFor(mode)

	if err := reg.Delete(r.Context(), id); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, reg.Sessions())
}

// ToggleSessionHandler starts or stops a session based on its displayed
// status.
func (c *Console) ToggleSessionHandler(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be PAPER or LIVE")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	reg, _ := c.registryFor(mode)

	if err := reg.ToggleStatus(r.Context(), id); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, reg.Sessions())
}

func (c *Console) StrategyCatalogHandler(w http.ResponseWriter, r *http.Request) {
	catalog, err := c.client.ListStrategies(r.Context())
	if err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// -----------------------------
// DETAIL VIEW
// -----------------------------

type openViewRequest struct {
	SessionID int64  `json:"session_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// OpenViewHandler resolves the view identity once, per the single-identity
// rule: a concrete session id wins over a legacy mode.
func (c *Console) OpenViewHandler(w http.ResponseWriter, r *http.Request) {
	var req openViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid view payload")
		return
	}

	var identity model.SessionIdentity
	if req.SessionID != 0 {
		identity = model.BySession(req.SessionID)
	} else if mode, ok := parseMode(req.Mode); ok {
		identity = model.ByMode(mode)
	} else {
		writeError(w, http.StatusBadRequest, "session_id or mode required")
		return
	}

	c.OpenView(identity)
	writeJSON(w, http.StatusOK, map[string]string{"status": "open"})
}

func (c *Console) CloseViewHandler(w http.ResponseWriter, _ *http.Request) {
	c.CloseView()
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

type viewState struct {
	State      string             `json:"state"`
	Session    *model.Session     `json:"session,omitempty"`
	Snapshot   dashboard.Snapshot `json:"snapshot"`
	ReturnPct  float64            `json:"return_pct"`
	Notices    []dashboard.Notice `json:"notices"`
	BtRunning  bool               `json:"backtest_running"`
	BtTickers  []string           `json:"backtest_tickers,omitempty"`
	BtSelected string             `json:"backtest_selected,omitempty"`
}

func (c *Console) StateHandler(w http.ResponseWriter, _ *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}

	session := view.Session()
	snap := view.Snapshot()

	initial := c.config.BacktestBalance
	if session != nil && session.InitialBalance > 0 {
		initial = session.InitialBalance
	}

	writeJSON(w, http.StatusOK, viewState{
		State:      string(view.State()),
		Session:    session,
		Snapshot:   snap,
		ReturnPct:  backtest.ReturnPct(snap.Account.TotalEquity, initial),
		Notices:    view.Notices(),
		BtRunning:  view.BacktestRunning(),
		BtTickers:  backtest.Tickers(view.BacktestResult()),
		BtSelected: view.SelectedTicker(),
	})
}

type symbolRequest struct {
	Symbol string `json:"symbol"`
}

func (c *Console) AddTickerHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	var req symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	if err := view.AddTicker(r.Context(), req.Symbol); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added", "symbol": req.Symbol})
}

func (c *Console) RemoveTickerHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	symbol := chi.URLParam(r, "symbol")
	if err := view.RemoveTicker(r.Context(), symbol); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed", "symbol": symbol})
}

func (c *Console) ToggleStrategyHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	name := chi.URLParam(r, "name")
	if err := view.ToggleStrategy(r.Context(), name); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, view.Snapshot().Strategies)
}

func (c *Console) DismissNoticeHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	view.Dismiss(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, view.Notices())
}

// -----------------------------
// BACKTEST
// -----------------------------

type backtestRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (c *Console) RunBacktestHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "start_date and end_date required")
		return
	}
	if err := utils.ValidateRange(req.StartDate, req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := view.RunBacktest(r.Context(), req.StartDate, req.EndDate); err != nil {
		// the orchestrator's own guard decides, no check-then-act here
		if errors.Is(err, dashboard.ErrBacktestRunning) {
			writeError(w, http.StatusConflict, connectors.Detail(err))
			return
		}
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, view.BacktestResult())
}

type chartResponse struct {
	Ticker      string                    `json:"ticker"`
	Points      []backtest.ChartPoint     `json:"points"`
	Performance []backtest.PerformanceRow `json:"performance"`
}

// ChartHandler returns the projected rows for one ticker of the stored
// backtest result.
func (c *Console) ChartHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	if view.BacktestResult() == nil {
		writeError(w, http.StatusNotFound, "no backtest result")
		return
	}
	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		view.SelectTicker(ticker)
	}

	writeJSON(w, http.StatusOK, chartResponse{
		Ticker:      view.SelectedTicker(),
		Points:      view.ChartData(),
		Performance: backtest.PerformanceRows(view.BacktestResult()),
	})
}

// -----------------------------
// TICKER SEARCH
// -----------------------------

type queryRequest struct {
	Query string `json:"query"`
}

type searchState struct {
	Searching   bool               `json:"searching"`
	Suggestions []model.StockMatch `json:"suggestions"`
	Basket      []string           `json:"basket"`
}

// SearchQueryHandler records one keystroke; the assistant debounces and
// issues the lookup in the background.
func (c *Console) SearchQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query payload")
		return
	}
	c.assistant.SetQuery(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

func (c *Console) SearchStateHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, searchState{
		Searching:   c.assistant.Searching(),
		Suggestions: c.assistant.Suggestions(),
		Basket:      c.assistant.Basket(),
	})
}

func (c *Console) SearchSelectHandler(w http.ResponseWriter, r *http.Request) {
	var req symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	c.assistant.Select(req.Symbol)
	writeJSON(w, http.StatusOK, map[string][]string{"basket": c.assistant.Basket()})
}

func (c *Console) SearchUnselectHandler(w http.ResponseWriter, r *http.Request) {
	var req symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	c.assistant.Unselect(req.Symbol)
	writeJSON(w, http.StatusOK, map[string][]string{"basket": c.assistant.Basket()})
}

// SearchCommitHandler hands the basket to the open view's batch add. The
// basket survives a failed commit.
func (c *Console) SearchCommitHandler(w http.ResponseWriter, r *http.Request) {
	view := c.View()
	if view == nil {
		writeError(w, http.StatusNotFound, "no open view")
		return
	}
	if err := c.assistant.Commit(r.Context(), view.AddTickers); err != nil {
		writeError(w, remoteStatus(err), connectors.Detail(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "committed"})
}
