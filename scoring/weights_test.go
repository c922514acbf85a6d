package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsinghua-fib-lab/busnet-eval/scoring"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
)

func TestWeightsSumValidation(t *testing.T) {
	even := config.ScoringWeights{
		ServiceCoverage:        0.1,
		TransitRouteRatio:      0.1,
		Ridership:              0.1,
		OnTimePerf:             0.1,
		TravelTime:             0.1,
		TransitAutoTimeRatio:   0.1,
		Productivity:           0.1,
		BusEfficiency:          0.1,
		BusEffectiveTravelDist: 0.1,
		BusTransferRate:        0.1,
	}
	_, err := scoring.NewWeights(even)
	assert.NoError(t, err)

	outside := even
	outside.BusTransferRate = 0.100000001
	_, err = scoring.NewWeights(outside)
	assert.Error(t, err)

	inside := even
	inside.BusTransferRate = 0.100000000000001
	_, err = scoring.NewWeights(inside)
	assert.NoError(t, err)
}

func TestWeightsNotSummingToOneFails(t *testing.T) {
	_, err := scoring.NewWeights(config.ScoringWeights{Ridership: 0.5})
	assert.Error(t, err)
}
