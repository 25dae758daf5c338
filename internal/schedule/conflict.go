package schedule

import (
	"time"

	"github.com/javiermolinar/pacer/internal/task"
)

// DetectFixedConflicts reports every pair of fixed tasks whose planned
// intervals [start, start+duration) intersect. Each unordered pair appears
// once, in list order. Touching intervals do not conflict.
func DetectFixedConflicts(tasks []task.Task) []FixedTaskConflict {
	var conflicts []FixedTaskConflict
	for i := 0; i < len(tasks); i++ {
		a := tasks[i]
		if !a.IsFixed() {
			continue
		}
		for j := i + 1; j < len(tasks); j++ {
			b := tasks[j]
			if !b.IsFixed() {
				continue
			}
			if overlap := OverlapSeconds(a.PlannedStart, a.PlannedEnd(), b.PlannedStart, b.PlannedEnd()); overlap > 0 {
				conflicts = append(conflicts, FixedTaskConflict{
					TaskID1:    a.ID,
					TaskID2:    b.ID,
					OverlapSec: overlap,
				})
			}
		}
	}
	return conflicts
}

// OverlapSeconds returns the length in whole seconds of the intersection of
// [start1, end1) and [start2, end2), or 0 if they do not intersect.
func OverlapSeconds(start1, end1, start2, end2 time.Time) int {
	overlapStart := start1
	if start2.After(overlapStart) {
		overlapStart = start2
	}
	overlapEnd := end1
	if end2.Before(overlapEnd) {
		overlapEnd = end2
	}
	if !overlapEnd.After(overlapStart) {
		return 0
	}
	return int(overlapEnd.Sub(overlapStart) / time.Second)
}

// ConflictsFor returns the conflicts that involve the task with the given ID.
func ConflictsFor(conflicts []FixedTaskConflict, id string) []FixedTaskConflict {
	var out []FixedTaskConflict
	for _, c := range conflicts {
		if c.TaskID1 == id || c.TaskID2 == id {
			out = append(out, c)
		}
	}
	return out
}
