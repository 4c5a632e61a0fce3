package envdetect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type Provider string

const (
	ProviderAWS          Provider = "aws"
	ProviderGCP          Provider = "gcp"
	ProviderAzure        Provider = "azure"
	ProviderDigitalOcean Provider = "digitalocean"
	ProviderUnknown      Provider = "unknown"
)

// Source records how a fact was found, for downstream trust weighting.
type Source string

const (
	SourceMetadata    Source = "metadata"
	SourceHeuristic   Source = "heuristic"
	SourceUnavailable Source = "unavailable"
)

// CloudInfo is the one-shot cloud environment classification. Computed once
// at startup, before the sampling loop, and never refreshed.
type CloudInfo struct {
	Provider     Provider
	InstanceType string
	Source       Source
}

// Endpoints holds the metadata-service URLs the detector probes. They are
// fields rather than constants so tests can point them at local servers.
type Endpoints struct {
	GCPRoot         string
	GCPMachineType  string
	AWSInstanceID   string
	AWSInstanceType string
	AzureInstance   string
	DOMetadata      string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		GCPRoot:         "http://metadata.google.internal",
		GCPMachineType:  "http://metadata.google.internal/computeMetadata/v1/instance/machine-type",
		AWSInstanceID:   "http://169.254.169.254/latest/meta-data/instance-id",
		AWSInstanceType: "http://169.254.169.254/latest/meta-data/instance-type",
		AzureInstance:   "http://169.254.169.254/metadata/instance?api-version=2021-02-01",
		DOMetadata:      "http://169.254.169.254/metadata/v1.json",
	}
}

const maxMetadataBody = 64 * 1024

// Detector probes cloud metadata services. Each probe is bounded by the
// client timeout so a hung metadata service cannot stall startup.
type Detector struct {
	client    *http.Client
	endpoints Endpoints

	// Injectable for the instance-type heuristic.
	cpuCount func() (int, error)
	memTotal func() (uint64, error)
}

func NewDetector(timeout time.Duration) *Detector {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Detector{
		client:    &http.Client{Timeout: timeout},
		endpoints: DefaultEndpoints(),
		cpuCount:  func() (int, error) { return cpu.Counts(true) },
		memTotal: func() (uint64, error) {
			vm, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return vm.Total, nil
		},
	}
}

// Detect runs the full one-shot classification: provider first, then
// instance type (metadata lookup, then heuristic). Probe failures are
// non-matches, never errors.
func (d *Detector) Detect(ctx context.Context) CloudInfo {
	provider, providerSource := d.DetectProvider(ctx)
	info := CloudInfo{Provider: provider, Source: SourceUnavailable}

	if provider == ProviderUnknown {
		log.Info().Str("reason", "no_metadata_service").Msg("cloud provider unavailable")
		return info
	}
	log.Info().
		Str("provider", string(provider)).
		Str("source", string(providerSource)).
		Msg("cloud provider detected")

	if t := d.instanceTypeFromMetadata(ctx, provider); t != "" {
		info.InstanceType = t
		info.Source = SourceMetadata
		log.Info().Str("instance_type", t).Str("source", string(SourceMetadata)).Msg("instance type detected")
		return info
	}
	if t := d.instanceTypeHeuristic(provider); t != "" {
		info.InstanceType = t
		info.Source = SourceHeuristic
		log.Info().Str("instance_type", t).Str("source", string(SourceHeuristic)).Msg("instance type detected")
		return info
	}

	log.Info().Str("reason", "not_exposed_by_metadata").Msg("instance type unavailable")
	return info
}

// DetectProvider tries each metadata service in order; the first responder
// wins and later probes are skipped.
func (d *Detector) DetectProvider(ctx context.Context) (Provider, Source) {
	if _, ok := d.get(ctx, d.endpoints.GCPRoot, gcpHeaders()); ok {
		return ProviderGCP, SourceMetadata
	}
	if _, ok := d.get(ctx, d.endpoints.AWSInstanceID, nil); ok {
		return ProviderAWS, SourceMetadata
	}
	if body, ok := d.get(ctx, d.endpoints.AzureInstance, azureHeaders()); ok && strings.Contains(body, "compute") {
		return ProviderAzure, SourceMetadata
	}
	if body, ok := d.get(ctx, d.endpoints.DOMetadata, nil); ok && strings.Contains(body, "droplet_id") {
		return ProviderDigitalOcean, SourceMetadata
	}
	return ProviderUnknown, SourceUnavailable
}

func (d *Detector) instanceTypeFromMetadata(ctx context.Context, provider Provider) string {
	switch provider {
	case ProviderAWS:
		body, ok := d.get(ctx, d.endpoints.AWSInstanceType, nil)
		if !ok {
			return ""
		}
		return strings.TrimSpace(body)

	case ProviderGCP:
		// Body is a full resource path; only the trailing segment matters.
		body, ok := d.get(ctx, d.endpoints.GCPMachineType, gcpHeaders())
		if !ok {
			return ""
		}
		parts := strings.Split(strings.TrimSpace(body), "/")
		return parts[len(parts)-1]

	case ProviderAzure:
		body, ok := d.get(ctx, d.endpoints.AzureInstance, azureHeaders())
		if !ok {
			return ""
		}
		var doc struct {
			Compute struct {
				VMSize string `json:"vmSize"`
			} `json:"compute"`
		}
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return ""
		}
		return doc.Compute.VMSize
	}
	return ""
}

// instanceTypeHeuristic synthesizes a slug from host shape when metadata has
// no answer. Only DigitalOcean has a defined slug format.
func (d *Detector) instanceTypeHeuristic(provider Provider) string {
	if provider != ProviderDigitalOcean {
		return ""
	}
	cpus, err := d.cpuCount()
	if err != nil || cpus <= 0 {
		return ""
	}
	total, err := d.memTotal()
	if err != nil || total == 0 {
		return ""
	}
	memGB := int(math.Round(float64(total) / (1 << 30)))
	return fmt.Sprintf("s-%dvcpu-%dgb", cpus, memGB)
}

func (d *Detector) get(ctx context.Context, url string, headers map[string]string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBody))
	if err != nil {
		return "", false
	}
	return string(body), true
}

func gcpHeaders() map[string]string {
	return map[string]string{"Metadata-Flavor": "Google"}
}

func azureHeaders() map[string]string {
	return map[string]string{"Metadata": "true"}
}
