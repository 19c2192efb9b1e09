package tracing

import (
	"fmt"

	"contrib.go.opencensus.io/integrations/ocsql"
	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/careops/careops/config"
)

// InitTracing applies the sampler and registers the HTTP, SQL and any extra
// views. It is a no-op when tracing is disabled.
func InitTracing(tracingConfig *config.TracingConfig, extraViews ...*view.View) error {
	if !tracingConfig.Enabled {
		return nil
	}

	if tracingConfig.SamplingProbability < 0 || tracingConfig.SamplingProbability > 1 {
		return fmt.Errorf("sampling probability must be within [0, 1], got %v", tracingConfig.SamplingProbability)
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(tracingConfig.SamplingProbability),
	})

	if err := view.Register(ochttp.DefaultServerViews...); err != nil {
		return fmt.Errorf("failed to register HTTP server views: %w", err)
	}

	ocsql.RegisterAllViews()

	if len(extraViews) > 0 {
		if err := view.Register(extraViews...); err != nil {
			return fmt.Errorf("failed to register custom views: %w", err)
		}
	}

	return nil
}
