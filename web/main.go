package main

import (
	"context"
	"flag"
	"os"

	"technuob.com/atomlift/infrastructure/devops"
	"technuob.com/atomlift/infrastructure/logging"
	"technuob.com/atomlift/web/handlers"
)

// Runs the in-memory backend for local development and demos.
func main() {
	addr := flag.String("addr", ":8090", "listen address")
	configPath := flag.String("config", os.Getenv("ATOMLIFT_CONFIG"), "config file, or ssm:<parameter>")
	flag.Parse()

	cfg, err := devops.Load(context.Background(), *configPath)
	log := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "atomlift-stub"})
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	r := handlers.NewStubServer(handlers.NewBackend(), log)
	log.Info().Str("addr", *addr).Str("otp", handlers.StubOTP).Msg("stub backend listening")
	if err := r.Run(*addr); err != nil {
		log.Fatal().Err(err).Msg("stub backend stopped")
	}
}
