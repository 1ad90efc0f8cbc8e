package domain

// Phase is a trip's lifecycle stage. Phases are ordered and a trip only ever
// advances forward through them; a completed phase stays viewable but is
// never re-entered. All phase mutation goes through the phases.Controller.
type Phase string

const (
	PhasePlanning   Phase = "PLANNING"
	PhaseBookings   Phase = "BOOKINGS"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseFinalized  Phase = "FINALIZED"
)

// PhaseOrder is the fixed forward-only lifecycle sequence.
var PhaseOrder = []Phase{PhasePlanning, PhaseBookings, PhaseInProgress, PhaseFinalized}

// Index returns the position of p in PhaseOrder, or -1 for an unknown phase.
func (p Phase) Index() int {
	for i, q := range PhaseOrder {
		if p == q {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the four known phases.
func (p Phase) Valid() bool { return p.Index() >= 0 }

// Next returns the immediate successor phase. ok is false when p is
// FINALIZED (terminal) or unknown.
func (p Phase) Next() (next Phase, ok bool) {
	i := p.Index()
	if i < 0 || i == len(PhaseOrder)-1 {
		return "", false
	}
	return PhaseOrder[i+1], true
}

// Terminal reports whether p has no outgoing transition.
func (p Phase) Terminal() bool { return p == PhaseFinalized }
