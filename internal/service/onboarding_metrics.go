package service

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/careops/careops/internal/domain"
)

var (
	transitionCount = stats.Int64(
		"careops/onboarding/transitions",
		"Number of onboarding wizard transitions",
		stats.UnitDimensionless,
	)

	keyOperation = tag.MustNewKey("operation")
	keyOutcome   = tag.MustNewKey("outcome")

	TransitionCountView = &view.View{
		Name:        "onboarding/transitions",
		Description: "Onboarding wizard transitions by operation and outcome",
		Measure:     transitionCount,
		TagKeys:     []tag.Key{keyOperation, keyOutcome},
		Aggregation: view.Count(),
	}
)

// OnboardingViews returns the views to register at startup
func OnboardingViews() []*view.View {
	return []*view.View{TransitionCountView}
}

func recordTransition(ctx context.Context, operation string, outcome domain.TransitionOutcome) {
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{
			tag.Upsert(keyOperation, operation),
			tag.Upsert(keyOutcome, string(outcome)),
		},
		transitionCount.M(1),
	)
}
