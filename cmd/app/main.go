package main

import (
	"context"
	"fmt"
	"os"

	"quickdrop/internal/config"
	dispatchservice "quickdrop/internal/dispatch-service"
	"quickdrop/internal/mylogger"
)

func main() {
	bootLog, err := mylogger.New(mylogger.LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create logger: %v\n", err)
		os.Exit(1)
	}

	cfg := config.New(bootLog)

	// config loads .env, so the effective log level is only known now
	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create logger: %v\n", err)
		os.Exit(1)
	}

	if err := dispatchservice.Execute(context.Background(), mylog, cfg); err != nil {
		mylog.Error("dispatch service exited with error", err)
		os.Exit(1)
	}
}
