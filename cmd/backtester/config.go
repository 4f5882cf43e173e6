package backtester

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	EngineURL      string        `envconfig:"ENGINE_URL" default:"http://localhost:8001"`
	Timeout        time.Duration `envconfig:"CMD_TIMEOUT" default:"5m"`
	InitialBalance float64       `envconfig:"BACKTEST_BALANCE" default:"10000"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
