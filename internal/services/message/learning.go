package message

import "fishcrypt/internal/domain"

// learnEvent is the outcome of one inbound decode.
type learnEvent int

const (
	primaryOK learnEvent = iota
	fallbackOK
	bothFailed
)

func (e learnEvent) String() string {
	switch e {
	case primaryOK:
		return "primary_ok"
	case fallbackOK:
		return "fallback_ok"
	default:
		return "both_failed"
	}
}

// modeState is the per-target learning state: which mode is tried first,
// whether that mode has decoded a line since it became primary, and the
// stored mode it was derived from.
type modeState struct {
	primary   domain.CipherMode
	confirmed bool
	stored    domain.CipherMode
}

type transition struct {
	flip      bool
	confirmed bool
}

// transitions is keyed by (confirmed, event). An unconfirmed primary gives
// way to the first line that only the other mode decodes. A confirmed one
// needs two such lines in a row, so a channel where ECB and CBC clients
// talk over each other does not flip the stored mode on every line.
var transitions = map[bool]map[learnEvent]transition{
	false: {
		primaryOK:  {confirmed: true},
		fallbackOK: {flip: true, confirmed: true},
		bothFailed: {confirmed: false},
	},
	true: {
		primaryOK:  {confirmed: true},
		fallbackOK: {confirmed: false},
		bothFailed: {confirmed: true},
	},
}

func newModeState(stored domain.CipherMode) *modeState {
	return &modeState{primary: stored, stored: stored}
}

// next returns the state after ev and whether the primary mode changed.
// The receiver is left untouched.
func (m modeState) next(ev learnEvent) (modeState, bool) {
	tr := transitions[m.confirmed][ev]
	if tr.flip {
		m.primary = m.primary.Other()
	}
	m.confirmed = tr.confirmed
	return m, tr.flip
}
