// services/scoring.go
package services

// Point values awarded per prediction.
const (
	PointsExactScore       = 3
	PointsOutcomeAndMargin = 2
	PointsOutcomeOnly      = 1
)

// Reward descriptions, stored verbatim on the Reward row.
const (
	DescExactScore       = "Exact score prediction"
	DescOutcomeAndMargin = "Correct outcome with goal difference"
	DescOutcomeOnly      = "Correct outcome"
)

type outcome int

const (
	outcomeHomeWin outcome = iota
	outcomeAwayWin
	outcomeDraw
)

func classify(home, away int) outcome {
	switch {
	case home > away:
		return outcomeHomeWin
	case home < away:
		return outcomeAwayWin
	default:
		return outcomeDraw
	}
}

// ScorePrediction is the deterministic scoring function:
//
//	3: exact score
//	2: correct outcome and exact goal difference (a draw matches trivially)
//	1: correct outcome, margin differs
//	0: otherwise
//
// Total over all integer score pairs; score sanity is the prediction-creation
// path's problem, not this function's.
func ScorePrediction(predHome, predAway, actualHome, actualAway int) (int, string) {
	if predHome == actualHome && predAway == actualAway {
		return PointsExactScore, DescExactScore
	}

	predOutcome := classify(predHome, predAway)
	actualOutcome := classify(actualHome, actualAway)
	if predOutcome != actualOutcome {
		return 0, ""
	}

	if predHome-predAway == actualHome-actualAway {
		return PointsOutcomeAndMargin, DescOutcomeAndMargin
	}
	return PointsOutcomeOnly, DescOutcomeOnly
}
