package main

import (
	"context"
	"log"
	"time"

	"resume-screener/internal/bootstrap"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	go app.Sessions.Run(context.Background(), time.Minute)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting resume screener on %s (ranking service %s)", addr, cfg.RankingServiceURL)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
