package filter

import (
	"sort"

	"isdjobs-api/internal/domain"
)

// Rank orders jobs in place: highest known minimum compensation first
// (unknown sorts as zero), then posted timestamp in ascending string order,
// then company. Stable, so jobs equal on all keys keep their merged order.
func Rank(jobs []domain.Job) {
	sort.SliceStable(jobs, func(a, b int) bool {
		ja, jb := jobs[a], jobs[b]
		ca, cb := compFloor(ja), compFloor(jb)
		if ca != cb {
			return ca > cb
		}
		if ja.PostedAt != jb.PostedAt {
			return ja.PostedAt < jb.PostedAt
		}
		return ja.Company < jb.Company
	})
}

func compFloor(j domain.Job) float64 {
	if j.CompMin == nil {
		return 0
	}
	return *j.CompMin
}
