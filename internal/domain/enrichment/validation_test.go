package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationStatusOrder(t *testing.T) {
	assert.Less(t, StatusApproved, StatusReviewRequired)
	assert.Less(t, StatusReviewRequired, StatusRejected)
}

func TestValidationStatusEscalate(t *testing.T) {
	statuses := []ValidationStatus{StatusApproved, StatusReviewRequired, StatusRejected}

	for _, a := range statuses {
		for _, b := range statuses {
			got := a.Escalate(b)
			assert.Equal(t, b.Escalate(a), got, "Escalate must be commutative")
			if a > b {
				assert.Equal(t, a, got)
			} else {
				assert.Equal(t, b, got)
			}
			for _, c := range statuses {
				assert.Equal(t, a.Escalate(b).Escalate(c), a.Escalate(b.Escalate(c)),
					"Escalate must be associative")
			}
		}
	}
}

func TestParseValidationStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected ValidationStatus
		wantErr  bool
	}{
		{"approved", StatusApproved, false},
		{"REVIEW_REQUIRED", StatusReviewRequired, false},
		{"rejected", StatusRejected, false},
		{" safe ", StatusApproved, false},
		{"needs_review", StatusReviewRequired, false},
		{"bogus", StatusApproved, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseValidationStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateContentProhibited(t *testing.T) {
	result := ValidateContent("モバイルバッテリー 大容量", "リチウムイオン電池 10000mAh", "")

	assert.Equal(t, StatusRejected, result.Status)
	assert.False(t, result.Passed)
	assert.Equal(t, []string{"lithium_battery"}, result.Flags)
	assert.Equal(t, 100, result.RiskScore)
	assert.True(t, result.IsProhibited())
	assert.False(t, result.CanPublish())

	desc, ok := FlagDescription("lithium_battery")
	require.True(t, ok)
	assert.Equal(t, desc, result.ReviewNotes)
}

func TestValidateContentProhibitedStopsAtFirstRule(t *testing.T) {
	// Text hits both the weapon and battery tables; the weapon entry is
	// declared first, so it is the only flag.
	result := ValidateContent("サバゲー用 エアガン", "リチウム電池 駆動", "")

	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, []string{"weapon"}, result.Flags)
	assert.Equal(t, 100, result.RiskScore)
}

func TestValidateContentReviewAccumulates(t *testing.T) {
	result := ValidateContent("ブランド風 レプリカ 化粧品セット", "サプリメント付き", "")

	assert.Equal(t, StatusReviewRequired, result.Status)
	assert.False(t, result.Passed)
	assert.Equal(t, []string{"trademark_risk", "pharmaceutical", "cosmetics"}, result.Flags)
	assert.Equal(t, 50, result.RiskScore)
	assert.True(t, result.NeedsReview())

	trademark, _ := FlagDescription("trademark_risk")
	pharma, _ := FlagDescription("pharmaceutical")
	cosmetics, _ := FlagDescription("cosmetics")
	assert.Equal(t, trademark+"\n"+pharma+"\n"+cosmetics, result.ReviewNotes)
}

func TestValidateContentClean(t *testing.T) {
	result := ValidateContent("SEIKO 腕時計 自動巻き", "動作確認済み", "腕時計")

	assert.Equal(t, StatusApproved, result.Status)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Flags)
	assert.Zero(t, result.RiskScore)
	assert.Empty(t, result.ReviewNotes)
	assert.True(t, result.CanPublish())
}

func TestValidateContentScansCategory(t *testing.T) {
	result := ValidateContent("保存用ケース", "未開封", "食品")

	assert.Equal(t, StatusReviewRequired, result.Status)
	assert.Equal(t, []string{"food_product"}, result.Flags)
}

func TestMergeValidation(t *testing.T) {
	approved := ValidationResult{Status: StatusApproved, Passed: true, Flags: []string{}}

	t.Run("nil AI verdict keeps rule result", func(t *testing.T) {
		assert.Equal(t, approved, MergeValidation(nil, approved))
	})

	t.Run("AI escalates an approved rule verdict", func(t *testing.T) {
		ai := &ListingValidation{
			Status:      StatusReviewRequired,
			Flags:       []string{"trademark_risk"},
			ReviewNotes: "possible replica",
			RiskScore:   60,
		}

		merged := MergeValidation(ai, approved)

		assert.Equal(t, StatusReviewRequired, merged.Status)
		assert.False(t, merged.Passed)
		assert.Equal(t, []string{"trademark_risk"}, merged.Flags)
		assert.Equal(t, 60, merged.RiskScore)
		assert.Equal(t, "possible replica", merged.ReviewNotes)
	})

	t.Run("rejected rule verdict is never downgraded", func(t *testing.T) {
		rule := ValidationResult{
			Status:      StatusRejected,
			Flags:       []string{"weapon"},
			ReviewNotes: "weapon listing",
			RiskScore:   100,
		}
		ai := &ListingValidation{Status: StatusApproved}

		merged := MergeValidation(ai, rule)

		assert.Equal(t, StatusRejected, merged.Status)
		assert.Equal(t, 100, merged.RiskScore)
	})

	t.Run("flags union preserves rule order and dedupes", func(t *testing.T) {
		rule := ValidationResult{
			Status:      StatusReviewRequired,
			Flags:       []string{"trademark_risk", "cosmetics"},
			ReviewNotes: "rule notes",
			RiskScore:   50,
		}
		ai := &ListingValidation{
			Status:      StatusReviewRequired,
			Flags:       []string{"cosmetics", "pharmaceutical"},
			ReviewNotes: "ai notes",
			RiskScore:   40,
		}

		merged := MergeValidation(ai, rule)

		assert.Equal(t, []string{"trademark_risk", "cosmetics", "pharmaceutical"}, merged.Flags)
		assert.Equal(t, 50, merged.RiskScore)
		assert.Equal(t, "rule notes\n\nai notes", merged.ReviewNotes)
	})
}

func TestAllFlagsHaveDescriptions(t *testing.T) {
	flags := AllFlags()

	for _, rule := range prohibitedRules {
		assert.Contains(t, flags, rule.Flag)
	}
	for _, rule := range reviewRules {
		assert.Contains(t, flags, rule.Flag)
	}
	assert.Contains(t, flags, ManualRejectionFlag)
}
