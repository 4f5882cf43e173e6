// REST API CLIENT FOR THE TRADING ENGINE
// RESTY ONLY, NO RETRY: retry/backoff policy belongs to the caller
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"tradeconsole/src/model"
)

const defaultTimeout = 15 * time.Second

// RemoteError is a non-2xx reply from the engine. Detail carries the
// engine's own message verbatim so validation failures can be shown as-is.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("engine HTTP %d: %s", e.Status, e.Detail)
}

// detailBody is the engine's error envelope, {"detail": "..."}.
type detailBody struct {
	Detail string `json:"detail"`
}

// EngineClient is a stateless typed wrapper around the engine's HTTP surface.
// Every method is a single request/response exchange.
type EngineClient struct {
	baseURL string
	http    *resty.Client
}

// NewEngineClient builds a client against the given engine address. The
// address is injected here so tests and other environments can point the
// client elsewhere.
func NewEngineClient(baseURL string) *EngineClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout)

	return &EngineClient{
		baseURL: baseURL,
		http:    httpClient,
	}
}

func (c *EngineClient) doRequest(ctx context.Context, method, path string, query map[string]string, body any, out any) error {
	req := c.http.R().SetContext(ctx)

	if query != nil {
		req = req.SetQueryParams(query)
	}
	if body != nil {
		req = req.SetBody(body).SetHeader("Content-Type", "application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("engine request %s %s failed: %w", method, path, err)
	}

	raw := resp.Body()

	if resp.StatusCode()/100 != 2 {
		var detail detailBody
		if err := json.Unmarshal(raw, &detail); err != nil || detail.Detail == "" {
			detail.Detail = string(raw)
		}
		return &RemoteError{Status: resp.StatusCode(), Detail: detail.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response failed: %w", method, path, err)
	}
	return nil
}

// -----------------------------
// SESSIONS
// -----------------------------

func (c *EngineClient) ListSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	err := c.doRequest(ctx, "GET", "/sessions", nil, nil, &sessions)
	return sessions, err
}

func (c *EngineClient) GetSession(ctx context.Context, id int64) (*model.Session, error) {
	var session model.Session
	if err := c.doRequest(ctx, "GET", fmt.Sprintf("/sessions/%d", id), nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *EngineClient) CreateSession(ctx context.Context, req model.CreateSessionRequest) (*model.Session, error) {
	var session model.Session
	if err := c.doRequest(ctx, "POST", "/sessions", nil, req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *EngineClient) DeleteSession(ctx context.Context, id int64) error {
	return c.doRequest(ctx, "DELETE", fmt.Sprintf("/sessions/%d", id), nil, nil, nil)
}

func (c *EngineClient) StartSession(ctx context.Context, id int64) error {
	return c.doRequest(ctx, "POST", fmt.Sprintf("/sessions/%d/start", id), nil, nil, nil)
}

func (c *EngineClient) StopSession(ctx context.Context, id int64) error {
	return c.doRequest(ctx, "POST", fmt.Sprintf("/sessions/%d/stop", id), nil, nil, nil)
}

// StartLegacy starts the engine for a bare trading mode, the pre-session
// addressing scheme retained for older links.
func (c *EngineClient) StartLegacy(ctx context.Context, mode model.TradingMode) error {
	return c.doRequest(ctx, "POST", "/control/start", map[string]string{"mode": string(mode)}, nil, nil)
}

// Ping checks engine reachability via the API root.
func (c *EngineClient) Ping(ctx context.Context) error {
	return c.doRequest(ctx, "GET", "/", nil, nil, nil)
}

// -----------------------------
// WATCHLIST & STRATEGY BINDINGS
// -----------------------------

func (c *EngineClient) ListSessionTickers(ctx context.Context, id int64) ([]string, error) {
	var tickers []string
	err := c.doRequest(ctx, "GET", fmt.Sprintf("/sessions/%d/tickers", id), nil, nil, &tickers)
	return tickers, err
}

func (c *EngineClient) AddSessionTicker(ctx context.Context, id int64, symbol string) error {
	body := map[string]string{"symbol": symbol}
	return c.doRequest(ctx, "POST", fmt.Sprintf("/sessions/%d/tickers", id), nil, body, nil)
}

func (c *EngineClient) RemoveSessionTicker(ctx context.Context, id int64, symbol string) error {
	return c.doRequest(ctx, "DELETE", fmt.Sprintf("/sessions/%d/tickers/%s", id, url.PathEscape(symbol)), nil, nil, nil)
}

func (c *EngineClient) ListSessionStrategies(ctx context.Context, id int64) ([]model.StrategyBinding, error) {
	var bindings []model.StrategyBinding
	err := c.doRequest(ctx, "GET", fmt.Sprintf("/sessions/%d/strategies", id), nil, nil, &bindings)
	return bindings, err
}

func (c *EngineClient) ToggleSessionStrategy(ctx context.Context, id int64, name string) error {
	return c.doRequest(ctx, "POST", fmt.Sprintf("/sessions/%d/strategies/%s/toggle", id, url.PathEscape(name)), nil, nil, nil)
}

// -----------------------------
// SESSION-SCOPED DATA
// -----------------------------

func (c *EngineClient) GetAccount(ctx context.Context, identity model.SessionIdentity) (*model.AccountSnapshot, error) {
	var account model.AccountSnapshot
	if err := c.doRequest(ctx, "GET", "/account", identityQuery(identity), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *EngineClient) GetHoldings(ctx context.Context, identity model.SessionIdentity) ([]model.Holding, error) {
	var holdings []model.Holding
	err := c.doRequest(ctx, "GET", "/holdings", identityQuery(identity), nil, &holdings)
	return holdings, err
}

func (c *EngineClient) GetTrades(ctx context.Context, identity model.SessionIdentity, limit int) ([]model.Trade, error) {
	query := identityQuery(identity)
	query["limit"] = strconv.Itoa(limit)

	var trades []model.Trade
	err := c.doRequest(ctx, "GET", "/trades", query, nil, &trades)
	return trades, err
}

// -----------------------------
// CATALOG & SEARCH
// -----------------------------

func (c *EngineClient) ListStrategies(ctx context.Context) ([]model.StrategyInfo, error) {
	var catalog []model.StrategyInfo
	err := c.doRequest(ctx, "GET", "/strategies", nil, nil, &catalog)
	return catalog, err
}

func (c *EngineClient) SearchStocks(ctx context.Context, query string) ([]model.StockMatch, error) {
	var matches []model.StockMatch
	err := c.doRequest(ctx, "GET", "/stocks/search", map[string]string{"query": query}, nil, &matches)
	return matches, err
}

// -----------------------------
// BACKTEST
// -----------------------------

func (c *EngineClient) RunBacktest(ctx context.Context, id int64, req model.BacktestRequest) (*model.BacktestResult, error) {
	var result model.BacktestResult
	if err := c.doRequest(ctx, "POST", fmt.Sprintf("/sessions/%d/backtest", id), nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func identityQuery(identity model.SessionIdentity) map[string]string {
	query := map[string]string{}
	for key, vals := range identity.Query() {
		if len(vals) > 0 {
			query[key] = vals[0]
		}
	}
	return query
}
