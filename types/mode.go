package types

// Mode is the one-shot boot outcome.
type Mode int

const (
	ModeStation Mode = iota
	ModePortal
)

func (m Mode) String() string {
	switch m {
	case ModeStation:
		return "station"
	case ModePortal:
		return "portal"
	default:
		return "unknown"
	}
}
