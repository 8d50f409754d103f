package pipeconf

// IdentifierOccurrence is one `id => value` assignment found in the text.
type IdentifierOccurrence struct {
	ID   string
	Line int
	Text string
}

// OccurrenceIndex groups occurrences by identifier, keeping both the order in which
// identifiers were first seen and the order of occurrences per identifier.
type OccurrenceIndex struct {
	byID  map[string][]IdentifierOccurrence
	order []string
}

func NewOccurrenceIndex() *OccurrenceIndex {
	return &OccurrenceIndex{byID: map[string][]IdentifierOccurrence{}}
}

func (x *OccurrenceIndex) Add(occ IdentifierOccurrence) {
	if _, ok := x.byID[occ.ID]; !ok {
		x.order = append(x.order, occ.ID)
	}
	x.byID[occ.ID] = append(x.byID[occ.ID], occ)
}

func (x *OccurrenceIndex) Occurrences(id string) []IdentifierOccurrence {
	return x.byID[id]
}

func (x *OccurrenceIndex) Len() int {
	return len(x.order)
}

// Duplicates returns the identifiers seen more than once, in first-seen order.
func (x *OccurrenceIndex) Duplicates() []string {
	out := make([]string, 0)
	for _, id := range x.order {
		if len(x.byID[id]) > 1 {
			out = append(out, id)
		}
	}
	return out
}
