package brc20

// Outcome is the decision value every validator returns. Validation never returns a Go error:
// a rejected operation is a normal, expected result, not a failure of the validator itself.
type Outcome struct {
	Accepted bool

	// Reason is the rejection reason when Accepted is false, or an informational note (e.g. a
	// clamped mint amount) when Accepted is true. Empty on a clean accept.
	Reason string
}

// Accept returns an accepted Outcome, optionally carrying an informational note.
func Accept(note string) Outcome {
	return Outcome{Accepted: true, Reason: note}
}

// Reject returns a rejected Outcome with reason.
func Reject(reason string) Outcome {
	return Outcome{Accepted: false, Reason: reason}
}
