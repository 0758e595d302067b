package hatim

import "math"

type Progress struct {
	TotalPages     int
	CompletedPages int
	Percent        int
	IsComplete     bool
}

// ComputeProgress derives the aggregate from the assignments alone. Empty
// blocks add nothing to either side.
func ComputeProgress(assignments []PageAssignment) Progress {
	var progress Progress
	for _, assignment := range assignments {
		progress.TotalPages += assignment.PageCount
		progress.CompletedPages += len(assignment.CompletedPages)
	}

	if progress.TotalPages > 0 {
		ratio := float64(progress.CompletedPages) / float64(progress.TotalPages)
		progress.Percent = int(math.Round(ratio * 100))
	}
	// >= rather than == so a double count still closes the hatim.
	progress.IsComplete = progress.TotalPages > 0 && progress.CompletedPages >= progress.TotalPages

	return progress
}

// NextStatus is the single lifecycle transition. Completed is absorbing.
func NextStatus(current Status, progress Progress) (Status, bool) {
	if current == StatusCompleted {
		return StatusCompleted, false
	}
	if progress.IsComplete {
		return StatusCompleted, true
	}
	return current, false
}
