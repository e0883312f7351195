package contract

import "fmt"

// RiskLevel is the single banner shown above the findings.
type RiskLevel string

const (
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
)

// moderateWarningThreshold is the warning count above which risk is moderate.
const moderateWarningThreshold = 3

// RiskLevelFor picks the banner from the reported counts.
// Precedence is fixed: any critical issue wins over any number of warnings.
func RiskLevelFor(s Summary) RiskLevel {
	switch {
	case s.Critical > 0:
		return RiskHigh
	case s.Warning > moderateWarningThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}

// Banner returns the headline and message for the risk level.
func Banner(s Summary) (RiskLevel, string) {
	level := RiskLevelFor(s)
	switch level {
	case RiskHigh:
		return level, fmt.Sprintf("HIGH RISK: %d critical issues must be resolved before contract execution", s.Critical)
	case RiskModerate:
		return level, fmt.Sprintf("MODERATE RISK: %d warnings require review and potential negotiation", s.Warning)
	default:
		return level, "LOW RISK: No critical issues found. Review warnings before proceeding."
	}
}
