package saga

import (
	"context"
	"fmt"

	"github.com/draftea/order-saga/shared/models"
	"github.com/pkg/errors"
)

// ErrRunConflict is returned by a RunStore when the stored run moved past the
// version the caller holds: another orchestration owns it.
var ErrRunConflict = errors.New("saga run is owned by another orchestration")

// Status is the externally visible status of a saga run
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	// StatusCompensating is stored while completed steps are being undone
	StatusCompensating Status = "COMPENSATING"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no more steps will run for this status
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// RunState tracks the progress of one saga run
type RunState struct {
	TransactionID  models.ID `json:"transaction_id"`
	Status         Status    `json:"status"`
	CompletedSteps []string  `json:"completed_steps"`
	FailureReason  string    `json:"failure_reason,omitempty"`
	// Version is the stored version this state was read at. Zero means the
	// run is not versioned.
	Version int `json:"version,omitempty"`
}

// NewRunState creates a pending run
func NewRunState(transactionID models.ID) *RunState {
	return &RunState{
		TransactionID:  transactionID,
		Status:         StatusPending,
		CompletedSteps: []string{},
	}
}

// HasCompleted reports whether the named step already completed
func (s *RunState) HasCompleted(step string) bool {
	for _, name := range s.CompletedSteps {
		if name == step {
			return true
		}
	}
	return false
}

// Complete records a completed step and advances the status. Steps are
// recorded at most once.
func (s *RunState) Complete(step Step) bool {
	if s.HasCompleted(step.Name) {
		return false
	}
	s.CompletedSteps = append(s.CompletedSteps, step.Name)
	s.Status = step.Status
	return true
}

// BeginCompensation records the failure reason while compensation runs
func (s *RunState) BeginCompensation(reason string) {
	s.Status = StatusCompensating
	s.FailureReason = reason
}

// Fail marks the run as failed
func (s *RunState) Fail(reason string) {
	s.Status = StatusFailed
	s.FailureReason = reason
}

// Finish marks the run as completed
func (s *RunState) Finish() {
	s.Status = StatusCompleted
	s.FailureReason = ""
}

// Clone returns a deep copy of the state
func (s *RunState) Clone() *RunState {
	completed := make([]string, len(s.CompletedSteps))
	copy(completed, s.CompletedSteps)
	return &RunState{
		TransactionID:  s.TransactionID,
		Status:         s.Status,
		CompletedSteps: completed,
		FailureReason:  s.FailureReason,
		Version:        s.Version,
	}
}

// FailedAtStep is the failure reason for a step that did not succeed
func FailedAtStep(step string) string {
	return fmt.Sprintf("Failed at step: %s", step)
}

// UnexpectedError is the failure reason for errors outside participant calls
func UnexpectedError(err error) string {
	return fmt.Sprintf("Unexpected error: %v", err)
}

// RunStore persists run state after every transition. A store that versions
// runs rejects a state whose Version is stale with ErrRunConflict and moves
// state.Version forward on success.
type RunStore interface {
	SaveRun(ctx context.Context, state *RunState) error
}

// RunStoreFunc adapts a function to the RunStore interface
type RunStoreFunc func(ctx context.Context, state *RunState) error

func (f RunStoreFunc) SaveRun(ctx context.Context, state *RunState) error {
	return f(ctx, state)
}
