package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/syedquadri719/montime-agent-installer/internal/agent"
	"github.com/syedquadri719/montime-agent-installer/internal/config"
	"github.com/syedquadri719/montime-agent-installer/internal/delivery"
	"github.com/syedquadri719/montime-agent-installer/internal/envdetect"
	"github.com/syedquadri719/montime-agent-installer/internal/health"
	"github.com/syedquadri719/montime-agent-installer/internal/logger"
	"github.com/syedquadri719/montime-agent-installer/internal/metrics"
)

func main() {

	// Load config. A missing token is the one fatal startup condition:
	// bail before any sampling or network call.
	cfg, err := config.Load("config.json")
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			fmt.Fprintln(os.Stderr, "ERROR: "+err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "ERROR: failed to load config: "+err.Error())
		}
		os.Exit(1)
	}

	// Init logger
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("version", config.AgentVersion).Msg("montime agent started")
	log.Info().Str("base_url", cfg.BaseURL).Dur("interval", cfg.Interval).Msg("delivery target")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//------------------------------------------
	// ONE-SHOT ENVIRONMENT DETECTION
	//------------------------------------------
	osInfo := envdetect.DetectOS()
	if osInfo.Type != "" {
		log.Info().
			Str("os_type", osInfo.Type).
			Str("os_name", osInfo.Name).
			Str("os_version", osInfo.Version).
			Msg("operating system detected")
	} else {
		log.Info().Msg("operating system unavailable")
	}

	cloudInfo := envdetect.NewDetector(cfg.MetadataTimeout).Detect(ctx)

	//------------------------------------------
	// START HEALTH SERVER
	//------------------------------------------
	var healthSrv *health.Server
	if cfg.HealthPort != "" {
		healthSrv = health.New(cfg.HealthPort)
		healthSrv.SetRunning(true)
		go func() {
			if err := healthSrv.Serve(); err != nil {
				log.Error().Err(err).Msg("health server stopped")
			}
		}()
		log.Info().Msg("health endpoint running on 127.0.0.1:" + cfg.HealthPort + "/health")
	}

	//------------------------------------------
	// START SAMPLING LOOP
	//------------------------------------------
	client := delivery.New(delivery.Options{
		BaseURL:    cfg.BaseURL,
		Token:      cfg.Token,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Timeout:    cfg.RequestTimeout,
	})

	ag := agent.New(
		metrics.NewCollector(cfg.DiskPath),
		metrics.NewProber(cfg.PingHost),
		client,
		osInfo,
		cloudInfo,
		config.AgentVersion,
		cfg.Interval,
	)
	if healthSrv != nil {
		ag.SetStatusReporter(healthSrv)
	}

	ag.Run(ctx)

	if healthSrv != nil {
		healthSrv.SetRunning(false)
	}
	log.Info().Msg("agent stopped cleanly")
}
