package main

import (
	"github.com/joho/godotenv"

	"github.com/coopsoft/usermgmt/internal/cli"
	"github.com/coopsoft/usermgmt/internal/logger"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()
	logger.Init()
	cli.Execute()
}
