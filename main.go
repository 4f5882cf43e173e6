package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"

	"tradeconsole/src/connectors"
	"tradeconsole/src/dashboard"
	"tradeconsole/src/server"
)

var APP_NAME = os.Getenv("APP_NAME")

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	_ = godotenv.Load()
	SetupLogger()
	defer handlePanic()

	dashCfg := dashboard.GetConfig()
	srvCfg := server.GetConfig()

	client := connectors.NewEngineClient(dashCfg.EngineURL)
	console := server.NewConsole(client, dashCfg)

	server.StartServer(srvCfg.Port, console)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
