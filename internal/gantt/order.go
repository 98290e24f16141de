package gantt

import (
	"sort"
	"strings"
	"time"

	"github.com/runchart/runchart/internal/domain"
)

// The orderings in this file are presentation heuristics, not canonical
// topological sorts: jobs are grouped so that dependency chains stay
// visually contiguous, with chronological tie-breaking. Callers that need
// strict Kahn-style ordering guarantees must not reuse them.

// dependencyDepths computes a dependency depth for every id: 1 + the
// maximum depth of its dependencies, or 0 when it has none. The traversal
// is memoized and cycle-tolerant: a node currently being visited reports
// depth 0 without memoizing, so malformed input terminates with a
// deterministic (if debatable) result instead of recursing forever.
func dependencyDepths(ids []string, deps func(id string) []string) map[string]int {
	depths := make(map[string]int, len(ids))
	visiting := make(map[string]bool)

	var walk func(id string) int
	walk = func(id string) int {
		if d, ok := depths[id]; ok {
			return d
		}
		if visiting[id] {
			return 0
		}
		visiting[id] = true
		max := 0
		for _, dep := range deps(id) {
			if d := walk(dep) + 1; d > max {
				max = d
			}
		}
		delete(visiting, id)
		depths[id] = max
		return max
	}

	for _, id := range ids {
		walk(id)
	}
	return depths
}

// earliestJobTime returns the job's started time, else its queued time.
// ok is false when the job carries no timing data at all.
func earliestJobTime(j domain.Job) (t time.Time, ok bool) {
	if j.Started != nil {
		return *j.Started, true
	}
	if j.Queued != nil {
		return *j.Queued, true
	}
	return time.Time{}, false
}

// earliestStageTime returns the earliest job time within the stage.
func earliestStageTime(jobs []domain.Job) (time.Time, bool) {
	var best time.Time
	found := false
	for _, j := range jobs {
		t, ok := earliestJobTime(j)
		if !ok {
			continue
		}
		if !found || t.Before(best) {
			best = t
			found = true
		}
	}
	return best, found
}

// orderStages sorts stage names by dependency depth, then by earliest job
// time (stages without any timed job sort last). A stage depends on
// another when any of its jobs needs a job in that stage. names must be
// in first-appearance order of the job list, which anchors stability.
func orderStages(names []string, stageJobs map[string][]domain.Job) []string {
	if len(names) <= 1 {
		return names
	}

	jobStage := make(map[string]string)
	for stage, jobs := range stageJobs {
		for _, j := range jobs {
			jobStage[j.JobID] = stage
		}
	}

	stageDeps := make(map[string][]string, len(names))
	for stage, jobs := range stageJobs {
		seen := make(map[string]bool)
		for _, j := range jobs {
			for _, need := range j.Needs() {
				dep, ok := jobStage[need]
				if ok && dep != stage && !seen[dep] {
					seen[dep] = true
					stageDeps[stage] = append(stageDeps[stage], dep)
				}
			}
		}
	}

	depths := dependencyDepths(names, func(id string) []string { return stageDeps[id] })

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(a, b int) bool {
		da, db := depths[sorted[a]], depths[sorted[b]]
		if da != db {
			return da < db
		}
		ta, oka := earliestStageTime(stageJobs[sorted[a]])
		tb, okb := earliestStageTime(stageJobs[sorted[b]])
		if oka != okb {
			return oka
		}
		return ta.Before(tb)
	})
	return sorted
}

// chainOrder arranges jobs so that each dependency chain is contiguous:
// roots (jobs with no dependency inside the set) come first in
// chronological order, each immediately followed by its dependents, again
// chronologically. A job with several in-set dependencies is placed by the
// first chain that has all of them placed, which keeps the result a valid
// topological order for acyclic input. Jobs left unreachable (cycles, or
// dependencies entirely outside the set) are appended chronologically.
func chainOrder(jobs []domain.Job) []domain.Job {
	inSet := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		inSet[j.JobID] = true
	}

	inSetNeeds := func(j domain.Job) []string {
		var needs []string
		for _, need := range j.Needs() {
			if inSet[need] {
				needs = append(needs, need)
			}
		}
		return needs
	}

	chrono := func(list []domain.Job) {
		sort.SliceStable(list, func(a, b int) bool {
			ta, oka := earliestJobTime(list[a])
			tb, okb := earliestJobTime(list[b])
			if oka != okb {
				return oka
			}
			return ta.Before(tb)
		})
	}

	dependents := make(map[string][]domain.Job)
	var roots []domain.Job
	for _, j := range jobs {
		needs := inSetNeeds(j)
		if len(needs) == 0 {
			roots = append(roots, j)
			continue
		}
		for _, need := range needs {
			dependents[need] = append(dependents[need], j)
		}
	}
	for _, list := range dependents {
		chrono(list)
	}
	chrono(roots)

	placed := make(map[string]bool, len(jobs))
	result := make([]domain.Job, 0, len(jobs))

	var addChain func(j domain.Job)
	addChain = func(j domain.Job) {
		if placed[j.JobID] {
			return
		}
		placed[j.JobID] = true
		result = append(result, j)
		for _, dep := range dependents[j.JobID] {
			if placed[dep.JobID] {
				continue
			}
			ready := true
			for _, need := range inSetNeeds(dep) {
				if !placed[need] {
					ready = false
					break
				}
			}
			if ready {
				addChain(dep)
			}
		}
	}

	for _, root := range roots {
		addChain(root)
	}

	var leftovers []domain.Job
	for _, j := range jobs {
		if !placed[j.JobID] {
			leftovers = append(leftovers, j)
		}
	}
	chrono(leftovers)
	for _, j := range leftovers {
		placed[j.JobID] = true
		result = append(result, j)
	}

	return result
}

// jobMatrixKey extracts the matrix group key from a job identifier using
// the bracket-suffix convention ("build[linux]" belongs to group "build").
// It returns "" for standalone jobs.
func jobMatrixKey(jobID string) string {
	open := strings.IndexByte(jobID, '[')
	if open <= 0 {
		return ""
	}
	if strings.IndexByte(jobID[open:], ']') < 0 {
		return ""
	}
	return jobID[:open]
}
