package chatstream

import "slices"

// Timeline is an ordered conversation history. Turns are appended, never
// reordered or deleted; only the last turn, while it is streaming, is mutated
// in place. At most one turn is streaming at any time. The Controller is the
// sole writer; everything else observes through Turns().
type Timeline struct {
	turns []Turn
}

// Append adds a turn at the end of the timeline.
func (t *Timeline) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Len returns the number of turns.
func (t *Timeline) Len() int { return len(t.turns) }

// Turns returns a copy of the timeline in conversation order. The copy keeps
// observers from mutating controller-owned state.
func (t *Timeline) Turns() []Turn {
	return slices.Clone(t.turns)
}

// Last returns the most recent turn, if any.
func (t *Timeline) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// ReplaceText replaces the last turn's text in place and marks it streaming,
// but only when the last turn's ID matches id. Returns false otherwise, which
// guards a stale callback from mutating a turn it does not own.
func (t *Timeline) ReplaceText(id, text string) bool {
	n := len(t.turns)
	if n == 0 || t.turns[n-1].ID != id {
		return false
	}
	t.turns[n-1].Text = text
	t.turns[n-1].Streaming = true
	return true
}

// Settle clears the streaming flag of the last turn when its ID matches id.
// A missing turn is not an error: an exchange may end before any assistant
// content arrived.
func (t *Timeline) Settle(id string) bool {
	n := len(t.turns)
	if n == 0 || t.turns[n-1].ID != id || !t.turns[n-1].Streaming {
		return false
	}
	t.turns[n-1].Streaming = false
	return true
}

// Freeze clears the streaming flag of the last turn regardless of its ID,
// preserving whatever partial text has accumulated. Returns true when a
// streaming turn was frozen; a settled timeline is left untouched.
func (t *Timeline) Freeze() bool {
	n := len(t.turns)
	if n == 0 || !t.turns[n-1].Streaming {
		return false
	}
	t.turns[n-1].Streaming = false
	return true
}
