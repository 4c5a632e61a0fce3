package agent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/syedquadri719/montime-agent-installer/internal/delivery"
	"github.com/syedquadri719/montime-agent-installer/internal/envdetect"
	"github.com/syedquadri719/montime-agent-installer/internal/metrics"
)

// Sampler provides resource-utilization readings.
type Sampler interface {
	Collect(ctx context.Context) (metrics.Sample, error)
}

// Prober provides the binary connectivity reading; it never fails.
type Prober interface {
	Probe(ctx context.Context) metrics.Status
}

// Deliverer sends one envelope and resolves it locally either way.
type Deliverer interface {
	Send(ctx context.Context, env *delivery.Envelope) delivery.Outcome
}

// StatusReporter receives the delivery outcome after each cycle.
type StatusReporter interface {
	SetLastDeliveryOK(bool)
}

// Agent runs the sequential sense-detect-send-sleep loop. OS and cloud
// facts are detected before the loop and held immutable for the process
// lifetime; cycles only read them.
type Agent struct {
	sampler   Sampler
	prober    Prober
	deliverer Deliverer
	reporter  StatusReporter

	osInfo    envdetect.OSInfo
	cloudInfo envdetect.CloudInfo

	version  string
	interval time.Duration
}

func New(
	sampler Sampler,
	prober Prober,
	deliverer Deliverer,
	osInfo envdetect.OSInfo,
	cloudInfo envdetect.CloudInfo,
	version string,
	interval time.Duration,
) *Agent {
	return &Agent{
		sampler:   sampler,
		prober:    prober,
		deliverer: deliverer,
		osInfo:    osInfo,
		cloudInfo: cloudInfo,
		version:   version,
		interval:  interval,
	}
}

// SetStatusReporter wires an optional health endpoint.
func (a *Agent) SetStatusReporter(r StatusReporter) {
	a.reporter = r
}

// Run loops until ctx is cancelled. A failed cycle is logged and skipped;
// cancellation is checked at iteration boundaries.
func (a *Agent) Run(ctx context.Context) {
	log.Info().Dur("interval", a.interval).Msg("sampling loop started")

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		a.runCycle(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("sampling loop stopped")
			return
		case <-ticker.C:
		}
	}
}

func (a *Agent) runCycle(ctx context.Context) {
	sample, err := a.sampler.Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("metrics collection failed, skipping cycle")
		return
	}
	sample.Connectivity = a.prober.Probe(ctx)

	outcome := a.deliverer.Send(ctx, a.buildEnvelope(sample))
	delivered := outcome == delivery.Delivered
	if a.reporter != nil {
		a.reporter.SetLastDeliveryOK(delivered)
	}

	if delivered {
		log.Info().
			Float64("cpu", sample.CPUPercent).
			Float64("memory", sample.MemoryPercent).
			Float64("disk", sample.DiskPercent).
			Str("status", string(sample.Connectivity)).
			Msg("cycle complete")
	} else {
		log.Warn().Msg("cycle complete, sample dropped")
	}
}

func (a *Agent) buildEnvelope(s metrics.Sample) *delivery.Envelope {
	return &delivery.Envelope{
		CPU:                  s.CPUPercent,
		Memory:               s.MemoryPercent,
		Disk:                 s.DiskPercent,
		Status:               string(s.Connectivity),
		AgentVersion:         a.version,
		CloudProvider:        string(a.cloudInfo.Provider),
		InstanceType:         a.cloudInfo.InstanceType,
		CloudDetectionSource: string(a.cloudInfo.Source),
		OSType:               a.osInfo.Type,
		OSName:               a.osInfo.Name,
		OSVersion:            a.osInfo.Version,
	}
}
