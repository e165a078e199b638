package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendEntityThresholds(t *testing.T) {
	tests := []struct {
		revenue float64
		entity  string
		savings int
	}{
		{1000000, "C-Corp with MSO Structure", 80000},
		{500001, "C-Corp with MSO Structure", 40000},
		{500000, "S-Corp Election", 25000},
		{150001, "S-Corp Election", 7500},
		{150000, "LLC with Tax Elections", 4500},
		{50001, "LLC with Tax Elections", 1500},
		{50000, "Sole Proprietorship or Single-Member LLC", 1000},
		{0, "Sole Proprietorship or Single-Member LLC", 0},
	}
	for _, tt := range tests {
		rec, err := RecommendEntity(EntityInput{AnnualRevenue: tt.revenue})
		require.NoError(t, err)
		assert.Equal(t, tt.entity, rec.Entity, "revenue %v", tt.revenue)
		assert.Equal(t, tt.savings, rec.EstimatedSavings, "revenue %v", tt.revenue)
		assert.Len(t, rec.Reasoning, 4)
		assert.Equal(t, "2-4 weeks", rec.TimeToImplement)
	}
}

func TestRecommendEntityOwners(t *testing.T) {
	solo, err := RecommendEntity(EntityInput{AnnualRevenue: 200000, NumberOfOwners: 1})
	require.NoError(t, err)
	multi, err := RecommendEntity(EntityInput{AnnualRevenue: 200000, NumberOfOwners: 3})
	require.NoError(t, err)
	assert.Len(t, multi.NextSteps, len(solo.NextSteps)+1)

	_, err = RecommendEntity(EntityInput{AnnualRevenue: -5})
	assert.Error(t, err)
}

func TestRecommendEntityRevenueBounds(t *testing.T) {
	tests := []struct {
		name    string
		revenue float64
		wantErr string
	}{
		{"huge", 1e300, "must not exceed"},
		{"just over", MaxAnnualRevenue + 1, "must not exceed"},
		{"infinite", math.Inf(1), "finite"},
		{"nan", math.NaN(), "finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecommendEntity(EntityInput{AnnualRevenue: tt.revenue})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	rec, err := RecommendEntity(EntityInput{AnnualRevenue: MaxAnnualRevenue})
	require.NoError(t, err)
	assert.Equal(t, 80_000_000_000, rec.EstimatedSavings)
}

func TestGeneratePlaybookIncomplete(t *testing.T) {
	_, err := GeneratePlaybook(Profile{EntityType: EntityW2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompleteProfile))
	assert.Contains(t, err.Error(), "income_range")
}

func TestGeneratePlaybookUnknownAnswer(t *testing.T) {
	_, err := GeneratePlaybook(Profile{
		EntityType:      "astronaut",
		IncomeRange:     Income50To100K,
		RealEstate:      RealEstateNone,
		AssetProtection: ProtectionNone,
		EstatePlanning:  EstateNotYet,
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrIncompleteProfile))
}

func TestGeneratePlaybookBeginner(t *testing.T) {
	pb, err := GeneratePlaybook(Profile{
		EntityType:      EntityW2,
		IncomeRange:     Income50To100K,
		RealEstate:      RealEstateNone,
		AssetProtection: ProtectionNone,
		EstatePlanning:  EstateNotYet,
	})
	require.NoError(t, err)
	assert.Equal(t, Beginner, pb.Profile.Complexity)
	assert.Equal(t, 0, pb.TotalStrategies)
	for _, phase := range Phases {
		assert.NotNil(t, pb.Strategies[phase], phase)
	}
}

func TestGeneratePlaybookAdvancedFromLabels(t *testing.T) {
	pb, err := GeneratePlaybook(Profile{
		EntityType:      "Business Owner",
		IncomeRange:     "$1M+",
		RealEstate:      "Active investor with REPS",
		AssetProtection: "Already have some trusts or structures",
		EstatePlanning:  "Already thinking about legacy/gifting",
	})
	require.NoError(t, err)

	assert.Equal(t, EntityBusinessOwner, pb.Profile.EntityType)
	assert.Equal(t, 12, pb.Profile.Score)
	assert.Equal(t, Advanced, pb.Profile.Complexity)

	titles := func(phase Phase) []string {
		var out []string
		for _, s := range pb.Strategies[phase] {
			out = append(out, s.Title)
		}
		return out
	}
	assert.Equal(t, []string{"C-Corp MSO Structure", "Entity Optimization", "REPS Qualification Maintenance"}, titles(PhaseSetup))
	assert.Equal(t, []string{"Cost Segregation Analysis", "Oil & Gas IDC Strategy", "Bonus Depreciation Stacking"}, titles(PhaseDeduct))
	assert.Equal(t, []string{"Advanced Trust Multiplication", "Split-Dollar Life Insurance"}, titles(PhaseProtect))
	assert.Equal(t, []string{"QSBS Qualification", "QOF Strategy", "Charitable Remainder Trust", "Wealth Multiplier Loop"}, titles(PhaseExit))
	assert.Equal(t, 12, pb.TotalStrategies)
	assert.Equal(t, Advanced, pb.Strategies[PhaseSetup][1].Complexity)
}

func TestGeneratePlaybookRentals(t *testing.T) {
	pb, err := GeneratePlaybook(Profile{
		EntityType:      EntityMixed,
		IncomeRange:     Income200To500K,
		RealEstate:      RealEstateRentals,
		AssetProtection: ProtectionInterested,
		EstatePlanning:  EstateNotYet,
	})
	require.NoError(t, err)

	// 2 (mixed) + 1 (income) + 1 (rentals) + 1 (interested)
	assert.Equal(t, 5, pb.Profile.Score)
	assert.Equal(t, Intermediate, pb.Profile.Complexity)
	require.Len(t, pb.Strategies[PhaseSetup], 2)
	assert.Equal(t, Intermediate, pb.Strategies[PhaseSetup][0].Complexity)
	assert.Equal(t, "REPS Qualification Strategy", pb.Strategies[PhaseSetup][1].Title)
	assert.Len(t, pb.Strategies[PhaseDeduct], 2)
	assert.Len(t, pb.Strategies[PhaseProtect], 1)
	assert.Empty(t, pb.Strategies[PhaseExit])
}

func TestComplexityBoundaries(t *testing.T) {
	assert.Equal(t, Beginner, complexityFor(3))
	assert.Equal(t, Intermediate, complexityFor(4))
	assert.Equal(t, Intermediate, complexityFor(7))
	assert.Equal(t, Advanced, complexityFor(8))
}
