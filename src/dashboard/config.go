package dashboard

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	EngineURL        string        `envconfig:"ENGINE_URL" default:"http://localhost:8001"`
	StatusPollPeriod time.Duration `envconfig:"STATUS_POLL_PERIOD" default:"5s"`
	DataPollPeriod   time.Duration `envconfig:"DATA_POLL_PERIOD" default:"2s"`
	TradesLimit      int           `envconfig:"TRADES_LIMIT" default:"20"`
	SearchDebounce   time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"500ms"`
	BacktestBalance  float64       `envconfig:"BACKTEST_BALANCE" default:"10000"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
