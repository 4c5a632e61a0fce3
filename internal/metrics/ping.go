package metrics

import (
	"context"
	"time"

	"github.com/go-ping/ping"
	"github.com/rs/zerolog/log"
)

// Prober checks outbound reachability with a single ICMP echo. It never
// returns an error: any failure reads as down.
type Prober struct {
	host    string
	timeout time.Duration
}

func NewProber(host string) *Prober {
	return &Prober{
		host:    host,
		timeout: 3 * time.Second,
	}
}

func (p *Prober) Probe(ctx context.Context) Status {
	pinger, err := ping.NewPinger(p.host)
	if err != nil {
		log.Debug().Err(err).Str("host", p.host).Msg("ping create failed")
		return StatusDown
	}

	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(true)

	// Run blocks until a reply or the pinger timeout; stop early if the
	// context ends first.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()

	if err := pinger.Run(); err != nil {
		log.Debug().Err(err).Str("host", p.host).Msg("ping run failed")
		return StatusDown
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return StatusDown
	}
	return StatusUp
}
