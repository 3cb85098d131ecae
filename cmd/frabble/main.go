package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Prior99/frabble/config"
	"github.com/Prior99/frabble/message"
	"github.com/Prior99/frabble/peer"
	"github.com/Prior99/frabble/shell"
	"github.com/Prior99/frabble/transport"
)

var (
	GitVersion string
)

const (
	GracefulShutdownTimeout = 5 * time.Second
)

func main() {
	cfg := config.DefaultConfig()
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
	log.Info().Str("version", GitVersion).Msgf("Loaded config: %v", cfg.SanitizedSettings())

	penalty, err := message.ParsePenaltyRule(cfg.GetString(config.ConfigPenaltyRule))
	if err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}

	nt, err := transport.DialNATS(cfg.GetString(config.ConfigNatsURL), cfg.GetString(config.ConfigSession),
		transport.NATSOptions{
			AckTimeout:  cfg.GetDuration(config.ConfigAckTimeout),
			AckAttempts: uint(cfg.GetInt(config.ConfigAckAttempts)),
		})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot-connect")
	}

	role := peer.RoleClient
	if cfg.GetBool(config.ConfigHost) {
		role = peer.RoleHost
	}
	p := peer.New(nt, peer.Options{
		Role:              role,
		User:              peer.NewUser(cfg.GetString(config.ConfigName)),
		TickInterval:      cfg.GetDuration(config.ConfigTickInterval),
		HeartbeatInterval: cfg.GetDuration(config.ConfigHeartbeatInterval),
	})

	ctx, cancel := context.WithCancel(context.Background())
	peerDone := make(chan error, 1)
	go func() { peerDone <- p.Run(ctx) }()

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
			// We received an interrupt signal, shut down.
			log.Info().Msg("got quit signal...")
		case err := <-peerDone:
			log.Err(err).Msg("peer-stopped")
			peerDone <- err
		}
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(ctx, p, message.GameConfig{
		Language:    cfg.GetString(config.ConfigLanguage),
		TimeLimit:   cfg.GetInt(config.ConfigTimeLimit),
		Seed:        cfg.GetString(config.ConfigSeed),
		PenaltyRule: penalty,
	})
	go sc.Notify(p.Events())
	go sc.Loop(sig)

	log.Info().Msg("started loop")

	<-idleConnsClosed
	cancel()
	select {
	case <-peerDone:
	case <-time.After(GracefulShutdownTimeout):
		log.Warn().Msg("peer-did-not-stop")
	}
	sc.Cleanup()
	log.Info().Msg("gracefully shutting down")
}
