package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

func Router(console *Console) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	r.Route("/console", func(r chi.Router) {
		r.Get("/sessions", console.ListSessionsHandler)
		r.Post("/sessions", console.CreateSessionHandler)
		r.Delete("/sessions/{id}", console.DeleteSessionHandler)
		r.Post("/sessions/{id}/toggle", console.ToggleSessionHandler)
		r.Get("/strategies", console.StrategyCatalogHandler)

		r.Post("/view", console.OpenViewHandler)
		r.Delete("/view", console.CloseViewHandler)
		r.Get("/state", console.StateHandler)
		r.Get("/stream", console.StreamHandler)

		r.Post("/tickers", console.AddTickerHandler)
		r.Delete("/tickers/{symbol}", console.RemoveTickerHandler)
		r.Post("/view/strategies/{name}/toggle", console.ToggleStrategyHandler)
		r.Post("/notices/{id}/dismiss", console.DismissNoticeHandler)

		r.Post("/backtest", console.RunBacktestHandler)
		r.Get("/chart", console.ChartHandler)

		r.Post("/search", console.SearchQueryHandler)
		r.Get("/search", console.SearchStateHandler)
		r.Post("/search/select", console.SearchSelectHandler)
		r.Post("/search/unselect", console.SearchUnselectHandler)
		r.Post("/search/commit", console.SearchCommitHandler)
	})

	return r
}

// StartServer serves the console until SIGINT/SIGTERM, then shuts down
// gracefully, closing the open detail view so its timers stop.
func StartServer(port string, console *Console) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: Router(console),
	}

	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	console.CloseView()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
