// Package pipeline runs the hybrid generation flow for a single endpoint:
// deterministic foundation cases first, then best-effort enhancement.
// Enhancement failure is never an endpoint failure; the foundation cases
// always stand on their own.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/masseyis/tdg/internal/enhance"
	"github.com/masseyis/tdg/internal/foundation"
	"github.com/masseyis/tdg/internal/report"
	"github.com/masseyis/tdg/pkg/models"
)

// Pipeline generates cases for one endpoint at a time. Safe for concurrent
// use by multiple workers.
type Pipeline struct {
	foundation *foundation.Generator
	client     *enhance.Client
	reporter   report.Reporter
	log        *slog.Logger
}

func New(gen *foundation.Generator, client *enhance.Client, reporter report.Reporter, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		foundation: gen,
		client:     client,
		reporter:   reporter,
		log:        log,
	}
}

// WillEnhance reports whether Process will attempt enhancement for these
// options. Workers use it to decide whether an enhancing progress stage
// exists at all.
func (p *Pipeline) WillEnhance(opts models.GenerationOptions) bool {
	return opts.Speed != models.SpeedFoundation && p.client != nil && p.client.Enabled()
}

// Process generates the full case set for one endpoint. The bool result
// reports whether enhanced cases made it into the output. An error means
// the endpoint itself is unusable; enhancement problems degrade to
// foundation-only output instead.
func (p *Pipeline) Process(ctx context.Context, endpoint models.EndpointSpec, opts models.GenerationOptions) ([]models.TestCase, bool, error) {
	base, err := p.foundation.Generate(endpoint, opts)
	if err != nil {
		return nil, false, fmt.Errorf("foundation cases for %s %s: %w", endpoint.Method, endpoint.Path, err)
	}

	if !p.WillEnhance(opts) {
		return base, false, nil
	}

	enhanced, err := p.client.Enhance(ctx, endpoint, base, opts)
	if err != nil {
		p.log.Warn("enhancement failed, using foundation cases",
			"method", endpoint.Method,
			"path", endpoint.Path,
			"provider", p.client.Provider(),
			"error", err)
		if p.reporter != nil {
			p.reporter.CaptureError(err, map[string]string{
				"stage":    "enhancement",
				"endpoint": endpoint.Method + " " + endpoint.Path,
			})
		}
		return base, false, nil
	}
	if len(enhanced) == 0 {
		return base, false, nil
	}

	return merge(base, enhanced), true, nil
}

// merge folds enhanced cases into the foundation set. An enhanced case
// that duplicates a foundation case replaces it; everything else appends.
func merge(base, enhanced []models.TestCase) []models.TestCase {
	out := make([]models.TestCase, len(base))
	copy(out, base)

	index := make(map[string]int, len(out))
	for i, c := range out {
		key := caseKey(c)
		if _, taken := index[key]; !taken {
			index[key] = i
		}
	}

	for _, e := range enhanced {
		if i, taken := index[caseKey(e)]; taken {
			out[i] = e
			continue
		}
		out = append(out, e)
	}
	return out
}

// caseKey identifies what a case exercises: the request shape plus the
// expected outcome. Names and concrete values stay out so an enhanced case
// with richer data still matches the foundation case it improves on.
func caseKey(c models.TestCase) string {
	return strings.Join([]string{
		string(c.Category),
		c.Method,
		c.Path,
		bodyShape(c.Body),
		fmt.Sprint(c.ExpectedStatus),
	}, "|")
}

func bodyShape(body any) string {
	switch b := body.(type) {
	case nil:
		return "-"
	case map[string]any:
		keys := make([]string, 0, len(b))
		for k := range b {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return strings.Join(keys, ",")
	default:
		return fmt.Sprintf("%T", b)
	}
}
