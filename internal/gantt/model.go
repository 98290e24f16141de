// Package gantt renders an interactive, time-scaled execution graph for a
// CI/CD workflow run: jobs grouped into stages, per-job time segments,
// dependency arrows and trigger/gate/result markers, drawn on a pannable
// and zoomable cell surface.
package gantt

import (
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runchart/runchart/internal/domain"
	"github.com/runchart/runchart/internal/theme"
)

// SegmentKind tags the phase of a job a time segment covers.
type SegmentKind string

const (
	SegmentQueued     SegmentKind = theme.SegmentQueued
	SegmentWorkerInit SegmentKind = theme.SegmentWorkerInit
	SegmentStep       SegmentKind = theme.SegmentStep
	SegmentCompleted  SegmentKind = theme.SegmentCompleted
)

// Segment is a time-bounded, typed slice of a job's execution. Segments
// are purely presentational and are recomputed on every model build.
type Segment struct {
	Kind     SegmentKind
	Start    time.Time
	End      time.Time
	StepName string        // set for step segments
	Status   domain.Status // step conclusion, or job status for completed
	Color    lipgloss.Color
}

// JobRow is one visual row of the chart.
type JobRow struct {
	ID         string // stable run-job id, used for selection callbacks
	JobID      string // declared job id, used for display and needs lookup
	Status     domain.Status
	Segments   []Segment
	Needs      []string
	MatrixKey  string // "" for standalone jobs
	Stage      string
	GateInputs map[string]any
	Y          int // vertical cell offset, assigned once per build
}

// StageGroup is a named band of contiguous rows.
type StageGroup struct {
	Name string
	Y    int
	Rows []*JobRow
}

// ResultMarker is a run result placed on the timeline. Synthetic is true
// when Time was not derived from the result itself; such placement is a
// presentation compromise and must not be read as a meaningful time.
type ResultMarker struct {
	Result    domain.Result
	Time      time.Time
	Synthetic bool
	JobRowID  string // matching run-job id, "" when unmatched
}

// Model is the layout-ready form of a run snapshot. It is fully replaced
// on every build; nothing patches it incrementally.
type Model struct {
	Run              domain.Run
	Rows             []*JobRow
	Stages           []StageGroup
	ShowStageHeaders bool
	TimelineStart    time.Time
	TimelineEnd      time.Time
	Results          []ResultMarker
}

// timelinePadding keeps segments off the surface edges.
const timelinePadding = 5 * time.Second

// Build transforms a run snapshot into a renderable model. It returns nil
// when the job list is empty: no model, nothing to render.
func Build(run domain.Run, jobs []domain.Job, results []domain.Result, th theme.Theme, now time.Time) *Model {
	if len(jobs) == 0 {
		return nil
	}

	m := &Model{Run: run}
	m.TimelineStart, m.TimelineEnd = timelineBounds(run, jobs, now)

	stageJobs := make(map[string][]domain.Job)
	var stageNames []string
	for _, j := range jobs {
		name := j.Stage()
		if _, seen := stageJobs[name]; !seen {
			stageNames = append(stageNames, name)
		}
		stageJobs[name] = append(stageJobs[name], j)
	}

	ordered := orderStages(stageNames, stageJobs)
	m.ShowStageHeaders = len(ordered) > 1 || (len(ordered) == 1 && ordered[0] != "default")

	dims := th.Dimensions
	y := dims.AxisHeight + dims.StageSpacing
	for _, name := range ordered {
		group := StageGroup{Name: name, Y: y}
		if m.ShowStageHeaders {
			y += dims.StageHeaderHeight
		}
		for _, j := range stageRowOrder(stageJobs[name]) {
			row := buildRow(j, y, th, now)
			row.Stage = name
			group.Rows = append(group.Rows, row)
			m.Rows = append(m.Rows, row)
			y += dims.RowHeight
		}
		m.Stages = append(m.Stages, group)
		y += dims.StageSpacing
	}

	m.Results = placeResults(run, results)
	return m
}

func timelineBounds(run domain.Run, jobs []domain.Job, now time.Time) (time.Time, time.Time) {
	min, max := run.Started, run.Started
	for _, j := range jobs {
		if j.Queued != nil && j.Queued.Before(min) {
			min = *j.Queued
		}
		switch {
		case j.Ended != nil:
			if j.Ended.After(max) {
				max = *j.Ended
			}
		case j.Started != nil:
			if now.After(max) {
				max = now
			}
		}
	}
	return min.Add(-timelinePadding), max.Add(timelinePadding)
}

// stageRowOrder arranges one stage's jobs for display: chain order first,
// then standalone jobs ahead of matrix groups, matrix members keeping
// their relative order within each group.
func stageRowOrder(jobs []domain.Job) []domain.Job {
	sorted := chainOrder(jobs)

	var standalone []domain.Job
	groups := make(map[string][]domain.Job)
	var groupKeys []string
	for _, j := range sorted {
		key := jobMatrixKey(j.JobID)
		if key == "" {
			standalone = append(standalone, j)
			continue
		}
		if _, seen := groups[key]; !seen {
			groupKeys = append(groupKeys, key)
		}
		groups[key] = append(groups[key], j)
	}

	out := standalone
	for _, key := range groupKeys {
		out = append(out, groups[key]...)
	}
	return out
}

type stepEntry struct {
	id     string
	status domain.StepStatus
}

// sortedSteps orders a job's steps by start time, then identifier; steps
// with no recorded start sort last.
func sortedSteps(j domain.Job) []stepEntry {
	entries := make([]stepEntry, 0, len(j.StepsStatus))
	for id, st := range j.StepsStatus {
		entries = append(entries, stepEntry{id: id, status: st})
	}
	sort.Slice(entries, func(a, b int) bool {
		sa, sb := entries[a].status.Started, entries[b].status.Started
		if (sa == nil) != (sb == nil) {
			return sb == nil
		}
		if sa != nil && !sa.Equal(*sb) {
			return sa.Before(*sb)
		}
		return entries[a].id < entries[b].id
	})
	return entries
}

// buildRow derives a job's display segments. The layered fallbacks
// guarantee every job with any timing data produces at least one segment;
// a job with none is still laid out as an empty row.
func buildRow(j domain.Job, y int, th theme.Theme, now time.Time) *JobRow {
	row := &JobRow{
		ID:         j.ID,
		JobID:      j.JobID,
		Status:     j.Status,
		Needs:      j.Needs(),
		MatrixKey:  jobMatrixKey(j.JobID),
		GateInputs: j.GateInputs,
		Y:          y,
	}

	if j.Queued != nil && j.Started != nil {
		row.Segments = append(row.Segments, Segment{
			Kind:  SegmentQueued,
			Start: *j.Queued,
			End:   *j.Started,
			Color: th.SegmentColor(theme.SegmentQueued),
		})
	}

	steps := sortedSteps(j)

	if j.Started != nil && len(steps) > 0 {
		if first := steps[0].status.Started; first != nil && first.After(*j.Started) {
			row.Segments = append(row.Segments, Segment{
				Kind:  SegmentWorkerInit,
				Start: *j.Started,
				End:   *first,
				Color: th.SegmentColor(theme.SegmentWorkerInit),
			})
		}
	}

	stepSegments := 0
	for _, entry := range steps {
		if entry.status.Started == nil {
			continue
		}
		end := now
		if entry.status.Ended != nil {
			end = *entry.status.Ended
		}
		row.Segments = append(row.Segments, Segment{
			Kind:     SegmentStep,
			Start:    *entry.status.Started,
			End:      end,
			StepName: entry.id,
			Status:   entry.status.Conclusion,
			Color:    th.StatusColor(entry.status.Conclusion),
		})
		stepSegments++
	}

	if stepSegments == 0 && j.Started != nil {
		end := now
		if j.Ended != nil {
			end = *j.Ended
		}
		row.Segments = append(row.Segments, Segment{
			Kind:   SegmentCompleted,
			Start:  *j.Started,
			End:    end,
			Status: j.Status,
			Color:  th.StatusColor(j.Status),
		})
	}

	return row
}

// resultTimeKeys are probed, in order, inside a result's detail data.
var resultTimeKeys = [...]string{"issued_at", "created", "timestamp", "created_at"}

// placeResults resolves a display time for every result. Results with no
// usable timestamp anywhere are dropped; fallbacks to the run's
// last-modified time or to index-spaced offsets after the run start are
// marked synthetic.
func placeResults(run domain.Run, results []domain.Result) []ResultMarker {
	var markers []ResultMarker
	for i, res := range results {
		marker := ResultMarker{Result: res, JobRowID: res.WorkflowRunJobID}
		switch {
		case res.IssuedAt != nil:
			marker.Time = *res.IssuedAt
		case lookupResultTime(res, &marker.Time):
		case run.LastModified != nil:
			marker.Time = *run.LastModified
			marker.Synthetic = true
		case !run.Started.IsZero():
			marker.Time = run.Started.Add(time.Duration(i+1) * time.Minute)
			marker.Synthetic = true
		default:
			continue
		}
		markers = append(markers, marker)
	}
	return markers
}

func lookupResultTime(res domain.Result, out *time.Time) bool {
	for _, key := range resultTimeKeys {
		v, ok := res.Detail.Data[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*out = t
			return true
		}
	}
	return false
}
