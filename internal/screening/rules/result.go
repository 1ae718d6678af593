package rules

import "lexscreen/internal/screening/intake"

// RiskLevel buckets the weighted risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Probability is the coarse likelihood-of-success bucket.
type Probability string

const (
	ProbabilityHigh           Probability = "high"
	ProbabilityModerate       Probability = "moderate"
	ProbabilityAttorneyReview Probability = "attorney_review_required"
)

// Classification is derived from intake facts and never stored apart from them.
type Classification struct {
	Variant     intake.Variant `json:"variant"`
	Remedies    []RemedyCode   `json:"recommended_remedies"`
	Probability Probability    `json:"probability_level"`
	Risk        RiskLevel      `json:"risk_level"`
	RiskScore   int            `json:"risk_score"`
	Flags       []FlagCode     `json:"flags"`
	Guidance    []GuidanceCode `json:"next_step_guidance"`
	// FiredRules lists rule ids in evaluation order for audit.
	FiredRules  []string `json:"fired_rules"`
	RuleVersion string   `json:"rule_version"`
}

// HasFlag reports whether code was triggered.
func (c Classification) HasFlag(code FlagCode) bool {
	for _, f := range c.Flags {
		if f == code {
			return true
		}
	}
	return false
}

// HasRemedy reports whether code was recommended.
func (c Classification) HasRemedy(code RemedyCode) bool {
	for _, r := range c.Remedies {
		if r == code {
			return true
		}
	}
	return false
}

// ReviewForced reports whether any triggered flag forces attorney review.
func (c Classification) ReviewForced() bool {
	for _, f := range c.Flags {
		if info, ok := Flag(f); ok && info.ForcesReview {
			return true
		}
	}
	return false
}
