// Package probe discovers which metrics surfaces a running application
// instance exposes. It issues concurrent GET requests against a fixed
// catalog of candidate endpoints and classifies each response body.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/perflens/perflens/internal/format"
)

// HostingKind says where the dashboard behind a capable endpoint is served:
// by the instance itself or by the shared monitor container.
type HostingKind int

const (
	HostingNone HostingKind = iota
	HostingInstanceLocal
	HostingSharedContainer
)

func (h HostingKind) String() string {
	switch h {
	case HostingInstanceLocal:
		return "instance-local"
	case HostingSharedContainer:
		return "shared-container"
	case HostingNone:
		return "none"
	default:
		return "unknown"
	}
}

// Candidate endpoint paths, relative to the instance root.
const (
	PathNodeDashboard    = "appmetrics-dash"
	PathJavaDashboard    = "javametrics-dash"
	PathSwiftDashboard   = "swiftmetrics-dash"
	PathExposition       = "metrics"
	PathVendorExposition = "actuator/prometheus"
)

// CandidateEndpoint is one fixed, known path that may expose a metrics
// surface. The catalog is immutable at runtime.
type CandidateEndpoint struct {
	Path    string
	Hosting HostingKind
}

var catalog = []CandidateEndpoint{
	{Path: PathNodeDashboard, Hosting: HostingInstanceLocal},
	{Path: PathJavaDashboard, Hosting: HostingInstanceLocal},
	{Path: PathSwiftDashboard, Hosting: HostingInstanceLocal},
	{Path: PathExposition, Hosting: HostingSharedContainer},
	{Path: PathVendorExposition, Hosting: HostingSharedContainer},
}

// Catalog returns a copy of the fixed candidate set.
func Catalog() []CandidateEndpoint {
	out := make([]CandidateEndpoint, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for path.
func Lookup(path string) (CandidateEndpoint, bool) {
	for _, c := range catalog {
		if c.Path == path {
			return c, true
		}
	}
	return CandidateEndpoint{}, false
}

// CapabilityMap maps a candidate path to whether the instance answered it
// with a recognized format. It is recomputed fresh on every probe call and
// never cached or merged with a prior value.
type CapabilityMap map[string]bool

// Prober issues capability probes against a single instance address.
type Prober struct {
	http    *http.Client
	timeout time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout sets the per-request probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Prober) {
		p.http = hc
	}
}

// NewProber creates a Prober with a 30 second per-request timeout.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		http:    &http.Client{},
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe issues one GET per candidate, all in parallel, and joins on the
// slowest. Each probe carries an independent timeout; a failure or timeout
// on one never aborts its siblings. Any uncertainty (network error, non-200,
// empty body) is fail-closed to "not capable".
func (p *Prober) Probe(ctx context.Context, host string, port int, candidates []CandidateEndpoint) CapabilityMap {
	caps := make(CapabilityMap, len(candidates))
	var mu sync.Mutex

	g := new(errgroup.Group)
	for _, c := range candidates {
		g.Go(func() error {
			capable := p.probeOne(ctx, host, port, c.Path)
			mu.Lock()
			caps[c.Path] = capable
			mu.Unlock()
			probesTotal.WithLabelValues(c.Path, strconv.FormatBool(capable)).Inc()
			return nil
		})
	}
	// Probes report failure as "not capable", never as an error.
	_ = g.Wait()
	return caps
}

func (p *Prober) probeOne(ctx context.Context, host string, port int, path string) bool {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := fmt.Sprintf("http://%s:%d/%s", host, port, path)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return false
	}

	text := string(body)
	return format.HasDashboardMarker(text) || format.IsExpositionFormat(text)
}
