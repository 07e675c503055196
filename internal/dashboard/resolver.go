// Package dashboard resolves a probed capability map into the single
// dashboard location the UI should open, if any.
package dashboard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/perflens/perflens/internal/probe"
)

// Target is the resolved dashboard location for one instance. A Target can
// carry a hosting kind without a path: the capability matched but the
// surface cannot render this language yet. Callers must treat an empty path
// as "unavailable" regardless of Hosting.
type Target struct {
	Hosting probe.HostingKind
	Path    string
}

// Available reports whether the target carries a usable path.
func (t Target) Available() bool {
	return t.Hosting != probe.HostingNone && t.Path != ""
}

// sharedContainerLanguages are the runtimes the shared monitor container can
// render today.
var sharedContainerLanguages = map[string]bool{
	"java":   true,
	"nodejs": true,
}

// legacyOrder is the evaluation order of the legacy dashboard tier. The
// three technology variants occupy a single priority slot; the first capable
// one wins.
var legacyOrder = []string{
	probe.PathNodeDashboard,
	probe.PathJavaDashboard,
	probe.PathSwiftDashboard,
}

// Resolver applies the fixed endpoint priority policy over a capability map.
type Resolver struct {
	expositionLanguages map[string]bool
	newRunID            func() string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRunID overrides the run ID generator used in shared-container paths.
func WithRunID(fn func() string) ResolverOption {
	return func(r *Resolver) {
		r.newRunID = fn
	}
}

// NewResolver creates a Resolver. expositionLanguages is the rollout rule
// for the standard exposition endpoint: only listed languages are eligible
// for it, everything else falls through to the legacy dashboard tier. This
// is the single place that restriction lives.
func NewResolver(expositionLanguages []string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		expositionLanguages: make(map[string]bool, len(expositionLanguages)),
		newRunID: func() string {
			return uuid.New().String()
		},
	}
	for _, lang := range expositionLanguages {
		r.expositionLanguages[lang] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve picks the highest-priority capable endpoint and builds its path.
// Priority: the standard exposition endpoint (when the language is eligible),
// then the legacy dashboard slot. No match is a valid none result, not an
// error.
func (r *Resolver) Resolve(caps probe.CapabilityMap, language string) Target {
	if r.expositionLanguages[language] && caps[probe.PathExposition] {
		return r.build(probe.PathExposition, language)
	}
	for _, path := range legacyOrder {
		if caps[path] {
			return r.build(path, language)
		}
	}
	return Target{Hosting: probe.HostingNone}
}

func (r *Resolver) build(path, language string) Target {
	entry, ok := probe.Lookup(path)
	if !ok {
		return Target{Hosting: probe.HostingNone}
	}
	switch entry.Hosting {
	case probe.HostingInstanceLocal:
		return Target{
			Hosting: entry.Hosting,
			Path:    entry.Path + "/?theme=dark",
		}
	case probe.HostingSharedContainer:
		return Target{
			Hosting: entry.Hosting,
			Path:    r.sharedContainerPath(language),
		}
	default:
		return Target{Hosting: probe.HostingNone}
	}
}

// sharedContainerPath returns the shared monitor dashboard path, or "" when
// the container cannot render this language.
func (r *Resolver) sharedContainerPath(language string) string {
	if !sharedContainerLanguages[language] {
		return ""
	}
	return fmt.Sprintf("/monitor/dashboard/%s?theme=dark&runID=%s", language, r.newRunID())
}
