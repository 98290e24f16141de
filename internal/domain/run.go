package domain

import "time"

// Status represents the lifecycle state of a job or step conclusion.
type Status string

const (
	StatusWaiting    Status = "Waiting"
	StatusScheduling Status = "Scheduling"
	StatusBuilding   Status = "Building"
	StatusSuccess    Status = "Success"
	StatusFail       Status = "Fail"
	StatusStopped    Status = "Stopped"
	StatusSkipped    Status = "Skipped"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFail, StatusStopped, StatusSkipped:
		return true
	}
	return false
}

// RunEvent describes the trigger that started a workflow run.
type RunEvent struct {
	HookType string `json:"hook_type"`
}

// Run identifies a single workflow execution.
type Run struct {
	ID           string     `json:"id"`
	WorkflowName string     `json:"workflow_name,omitempty"`
	Started      time.Time  `json:"started"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	Event        *RunEvent  `json:"event,omitempty"`
}

// HookType returns the trigger hook type, defaulting to "manual".
func (r Run) HookType() string {
	if r.Event != nil && r.Event.HookType != "" {
		return r.Event.HookType
	}
	return "manual"
}

// JobSpec holds the declared (as opposed to executed) properties of a job.
type JobSpec struct {
	Needs []string `json:"needs,omitempty"`
	Stage string   `json:"stage,omitempty"`
}

// StepStatus records the execution of a single step within a job.
type StepStatus struct {
	Started    *time.Time `json:"started,omitempty"`
	Ended      *time.Time `json:"ended,omitempty"`
	Conclusion Status     `json:"conclusion,omitempty"`
}

// Job represents one executed (or executing) unit of a workflow run.
// Queued, Started and Ended are nil while the job has not reached the
// corresponding point of its lifecycle.
type Job struct {
	ID          string                `json:"id"`
	JobID       string                `json:"job_id"`
	Spec        *JobSpec              `json:"job,omitempty"`
	Status      Status                `json:"status"`
	Queued      *time.Time            `json:"queued,omitempty"`
	Started     *time.Time            `json:"started,omitempty"`
	Ended       *time.Time            `json:"ended,omitempty"`
	StepsStatus map[string]StepStatus `json:"steps_status,omitempty"`
	GateInputs  map[string]any        `json:"gate_inputs,omitempty"`
}

// Needs returns the upstream job identifiers this job depends on.
func (j Job) Needs() []string {
	if j.Spec == nil {
		return nil
	}
	return j.Spec.Needs
}

// Stage returns the stage name, defaulting to "default" when unset.
func (j Job) Stage() string {
	if j.Spec == nil || j.Spec.Stage == "" {
		return "default"
	}
	return j.Spec.Stage
}

// ResultDetail carries the typed payload of a run result.
type ResultDetail struct {
	Data map[string]any `json:"data"`
}

// Result is an artifact or report produced by a job during the run.
type Result struct {
	ID               string       `json:"id"`
	Type             string       `json:"type"`
	Label            string       `json:"label,omitempty"`
	IssuedAt         *time.Time   `json:"issued_at,omitempty"`
	WorkflowRunJobID string       `json:"workflow_run_job_id,omitempty"`
	Detail           ResultDetail `json:"detail"`
}

// DisplayLabel returns the label to render for the result.
func (r Result) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	if r.Type != "" {
		return r.Type
	}
	return "Result"
}
