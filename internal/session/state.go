package session

import "fmt"

// State is the position of the Machine in the prediction/tips cycle.
type State int

const (
	Idle State = iota
	PredictionPending
	PredictionShown
	PredictionFailed
	TipsPending
	TipsShown
	TipsFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case PredictionPending:
		return "PredictionPending"
	case PredictionShown:
		return "PredictionShown"
	case PredictionFailed:
		return "PredictionFailed"
	case TipsPending:
		return "TipsPending"
	case TipsShown:
		return "TipsShown"
	case TipsFailed:
		return "TipsFailed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsPending reports whether the state waits on a request.
func (s State) IsPending() bool {
	return s == PredictionPending || s == TipsPending
}
