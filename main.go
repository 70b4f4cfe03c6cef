package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"holdemroom/config"
	"holdemroom/engine"
	"holdemroom/models"
	"holdemroom/session"
	"holdemroom/transport"
)

func main() {
	cfg := config.Load()

	registry := engine.NewRoomManager()
	defaults := session.RoomDefaults{
		Config: models.RoomConfig{
			MaxSeats:      cfg.DefaultMaxSeats,
			SmallBlind:    cfg.DefaultSmallBlind,
			BigBlind:      cfg.DefaultBigBlind,
			MinBuyInBB:    cfg.DefaultMinBuyInBB,
			ActionTimeout: int(cfg.ActionTimeout.Seconds()),
		},
		PrivilegedSecret: cfg.PrivilegedSecret,
		ActionTimeout:    cfg.ActionTimeout,
		DisplayDelay:     cfg.DisplayDelay,
		NextHandDelay:    cfg.NextHandDelay,
	}
	manager := session.NewManager(registry, defaults, cfg.ReapGrace, cfg.DisconnectGrace)

	router := transport.NewRouter(cfg, manager)

	go func() {
		log.Printf("holdemroom listening on %s", cfg.ListenAddr)
		if err := router.Run(cfg.ListenAddr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down")
}
