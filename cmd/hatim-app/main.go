package main

import (
	"os"

	"hatim-app-go/internal/cli"
	"hatim-app-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()

	if err := cli.RootCmd(log).Execute(); err != nil {
		log.Critical("app: exited with error", "err", err)
		os.Exit(1)
	}
}
