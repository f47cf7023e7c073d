package service

import (
	"slices"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

// LatestMatch returns the newest visitor record created by req, or nil.
// Records are ordered by arrival time, newest first; records with a missing
// or unparsable time sort last and keep their listing order.
func LatestMatch(visitors []domain.Visitor, req domain.ArrivalRequest) *domain.Visitor {
	sorted := slices.Clone(visitors)
	slices.SortStableFunc(sorted, func(a, b domain.Visitor) int {
		ta, okA := a.ArrivedAt()
		tb, okB := b.ArrivedAt()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})

	for i := range sorted {
		if sorted[i].Matches(req) {
			v := sorted[i]
			return &v
		}
	}
	return nil
}
