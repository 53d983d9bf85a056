package application

import (
	"cmp"
	"slices"

	"github.com/OliveiraNt/consumer-progress/internal/domain"
)

// CompareRecords orders groups with more live connections first, then the most
// backlogged first.
func CompareRecords(a, b domain.GroupReportRecord) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return cmp.Compare(b.DiffTotal, a.DiffTotal)
}

// RankRecords sorts records in display order. Records equal under CompareRecords keep
// their relative order.
func RankRecords(records []domain.GroupReportRecord) {
	slices.SortStableFunc(records, CompareRecords)
}
