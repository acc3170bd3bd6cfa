package receipt

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a receipt print job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"   // Created, printer not yet opened
	JobStatusPrinting  JobStatus = "PRINTING"  // Document started on the printer
	JobStatusCompleted JobStatus = "COMPLETED" // Document ended and spooled
	JobStatusAbandoned JobStatus = "ABANDONED" // Failed; the document was never finalized
)

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusAbandoned
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusPrinting || target == JobStatusAbandoned
	case JobStatusPrinting:
		return target == JobStatusCompleted || target == JobStatusAbandoned
	}
	return false
}

// Job tracks one receipt from request to spooled document
type Job struct {
	ID          uuid.UUID
	PrinterName string
	Status      JobStatus
	Error       string
	CreatedAt   time.Time
	FinishedAt  *time.Time
}

// NewJob creates a pending job for the given printer
func NewJob(printerName string, now time.Time) *Job {
	return &Job{
		ID:          uuid.New(),
		PrinterName: printerName,
		Status:      JobStatusPending,
		CreatedAt:   now,
	}
}

// StartPrinting marks the document as started on the printer
func (j *Job) StartPrinting() error {
	return j.transition(JobStatusPrinting)
}

// Complete marks the document as ended and handed to the spooler
func (j *Job) Complete(now time.Time) error {
	if err := j.transition(JobStatusCompleted); err != nil {
		return err
	}
	j.FinishedAt = &now
	return nil
}

// Abandon marks the job as failed with the cause
func (j *Job) Abandon(cause error, now time.Time) error {
	if err := j.transition(JobStatusAbandoned); err != nil {
		return err
	}
	if cause != nil {
		j.Error = cause.Error()
	}
	j.FinishedAt = &now
	return nil
}

func (j *Job) transition(target JobStatus) error {
	if j.Status.IsTerminal() {
		return NewError("INVALID_STATE", "job is already "+j.Status.String(), nil)
	}
	if !j.Status.CanTransitionTo(target) {
		return NewError("INVALID_STATE", "cannot move job from "+j.Status.String()+" to "+target.String(), nil)
	}
	j.Status = target
	return nil
}
