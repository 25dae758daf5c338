package projection

import "time"

// RiskThreshold is the slack below which an upcoming fixed task turns yellow.
const RiskThreshold = 300 * time.Second

// RiskLevel grades how likely a fixed task is to start late.
type RiskLevel string

const (
	RiskNone   RiskLevel = ""
	RiskGreen  RiskLevel = "green"
	RiskYellow RiskLevel = "yellow"
	RiskRed    RiskLevel = "red"
)

// CalculateRisk compares the forecast arrival at a fixed task with its
// scheduled start: more than RiskThreshold of slack is green, any positive
// slack up to the threshold is yellow, none at all is red.
func CalculateRisk(projectedStart, scheduledStart time.Time) RiskLevel {
	buffer := scheduledStart.Sub(projectedStart)
	switch {
	case buffer > RiskThreshold:
		return RiskGreen
	case buffer > 0:
		return RiskYellow
	default:
		return RiskRed
	}
}

// BufferSeconds returns scheduledStart - projectedStart in whole seconds.
// Negative means the task is already late.
func BufferSeconds(projectedStart, scheduledStart time.Time) int {
	return int(scheduledStart.Sub(projectedStart) / time.Second)
}
