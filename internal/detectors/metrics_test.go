package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-evaluator/internal/types"
)

func TestAnalyzeMetrics_PerBullet(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		wantNumber      bool
		wantUnits       []string
		wantDelta       bool
		wantPercentages []float64
		wantMoneyUSD    []float64
		wantLaunches    int
	}{
		{
			name:            "percentage with delta",
			text:            "Reduced latency by 60% across inference pipelines",
			wantNumber:      true,
			wantUnits:       []string{types.UnitPct},
			wantDelta:       true,
			wantPercentages: []float64{60},
		},
		{
			name:            "multiplier and time",
			text:            "Grew revenue 3x in 2 quarters",
			wantNumber:      true,
			wantUnits:       []string{types.UnitTime, types.UnitRatio},
			wantDelta:       true,
			wantPercentages: []float64{200},
		},
		{
			name:         "dollar amount with magnitude",
			text:         "Closed a $200k enterprise deal",
			wantNumber:   true,
			wantUnits:    []string{types.UnitCurrency},
			wantMoneyUSD: []float64{200000},
		},
		{
			name:         "rupees in lakh",
			text:         "Raised INR 50 lakh in seed funding",
			wantNumber:   true,
			wantUnits:    []string{types.UnitCurrency},
			wantDelta:    true,
			wantMoneyUSD: []float64{60000},
		},
		{
			name:         "euro million",
			text:         "Managed a €1.5 million budget",
			wantNumber:   true,
			wantUnits:    []string{types.UnitCurrency},
			wantMoneyUSD: []float64{1620000},
		},
		{
			name:         "explicit launch count",
			text:         "Launched 6 products across 3 markets",
			wantNumber:   true,
			wantUnits:    []string{types.UnitCount},
			wantLaunches: 6,
		},
		{
			name:         "generic launch verb",
			text:         "Shipped the new onboarding flow",
			wantUnits:    []string{},
			wantLaunches: 1,
		},
		{
			name:      "nothing measurable",
			text:      "Built dashboards.",
			wantUnits: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeMetrics(profileWithBullets(tt.text), testLex)
			require.Len(t, result.Bullets, 1)
			m := result.Bullets[0]

			assert.Equal(t, tt.wantNumber, m.HasNumber, "HasNumber")
			assert.Equal(t, tt.wantUnits, m.Units, "Units")
			assert.Equal(t, tt.wantDelta, m.HasDelta, "HasDelta")
			assert.Equal(t, tt.wantLaunches, m.Launches, "Launches")

			require.Len(t, m.Percentages, len(tt.wantPercentages))
			for i, pct := range tt.wantPercentages {
				assert.InDelta(t, pct, m.Percentages[i], 0.001)
			}
			require.Len(t, m.Money, len(tt.wantMoneyUSD))
			for i, usd := range tt.wantMoneyUSD {
				assert.InDelta(t, usd, m.Money[i].Baseline, 0.01)
			}
		})
	}
}

func TestAnalyzeMetrics_Aggregate(t *testing.T) {
	t.Run("all three signals", func(t *testing.T) {
		profile := profileWithBullets(
			"Reduced churn by 25% in two quarters",
			"Closed a $200k enterprise deal",
			"Launched a new pricing tier",
			"Built dashboards.",
		)
		result := AnalyzeMetrics(profile, testLex)

		assert.InDelta(t, 0.5, result.Density, 1e-9)
		assert.Equal(t, []string{SignalBigPercent, SignalLargeMoney, SignalLaunch}, result.SignalsFired)
		assert.InDelta(t, 1.0, result.Confidence, 1e-9)
		assert.InDelta(t, 25.0, result.MaxPct, 1e-9)
		assert.InDelta(t, 200000.0, result.MaxMoney, 0.01)
		assert.Equal(t, 1, result.Launches)
	})

	t.Run("one signal", func(t *testing.T) {
		result := AnalyzeMetrics(profileWithBullets("Grew revenue by 40%", "Built dashboards."), testLex)
		assert.Equal(t, []string{SignalBigPercent}, result.SignalsFired)
		assert.InDelta(t, 1.0/3+0.1, result.Confidence, 1e-9)
	})

	t.Run("no signals", func(t *testing.T) {
		result := AnalyzeMetrics(profileWithBullets("Built dashboards."), testLex)
		assert.Empty(t, result.SignalsFired)
		assert.InDelta(t, 0.1, result.Confidence, 1e-9)
		assert.Zero(t, result.Density)
	})

	t.Run("no bullets", func(t *testing.T) {
		result := AnalyzeMetrics(types.NewNormalizedProfile(), testLex)
		assert.Zero(t, result.Confidence)
		assert.Zero(t, result.Density)
		assert.NotNil(t, result.Bullets)
	})
}

func TestAnalyzeMetrics_StructuredMetrics(t *testing.T) {
	pct := 25.0
	value := 2.0
	profile := profileWithBullets("Improved conversion on checkout")
	profile.Roles[0].Bullets[0].Metrics = &types.Metrics{Pct: &pct, Value: &value, Currency: "usd"}

	result := AnalyzeMetrics(profile, testLex)
	m := result.Bullets[0]

	assert.True(t, m.HasNumber)
	assert.Equal(t, []float64{25}, m.Percentages)
	require.Len(t, m.Money, 1)
	assert.Equal(t, "USD", m.Money[0].Currency)
	assert.Equal(t, []string{types.UnitPct, types.UnitCurrency}, m.Units)
	assert.InDelta(t, 1.0, result.Density, 1e-9)
}
