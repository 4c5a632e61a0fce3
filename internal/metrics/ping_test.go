package metrics

import (
	"context"
	"testing"
	"time"
)

func TestProbeUnresolvableHostIsDown(t *testing.T) {
	p := &Prober{host: "host name with spaces", timeout: 100 * time.Millisecond}

	if got := p.Probe(context.Background()); got != StatusDown {
		t.Fatalf("status = %s, want down", got)
	}
}

func TestProbeNoReplyIsDown(t *testing.T) {
	// TEST-NET-3 address: never answers.
	p := &Prober{host: "203.0.113.1", timeout: 200 * time.Millisecond}

	start := time.Now()
	if got := p.Probe(context.Background()); got != StatusDown {
		t.Fatalf("status = %s, want down", got)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("probe should be bounded by its timeout, took %v", elapsed)
	}
}

func TestProbeCancelledContextIsDown(t *testing.T) {
	p := &Prober{host: "203.0.113.1", timeout: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if got := p.Probe(ctx); got != StatusDown {
		t.Fatalf("status = %s, want down", got)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancelled context should stop the probe early, took %v", elapsed)
	}
}
