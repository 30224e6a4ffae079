package workflow

// Stage is one step of the fixed linear checkout flow.
type Stage int

const (
	StageShipping Stage = iota
	StagePayment
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageShipping:
		return "shipping"
	case StagePayment:
		return "payment"
	case StageConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// IsTerminal reports whether the stage is the terminal display state.
func (s Stage) IsTerminal() bool {
	return s == StageConfirmation
}
