package saga

// StepType determines how a step is executed and whether it can be undone
type StepType string

const (
	// Compensatable steps run once and are undone by their compensating operation
	Compensatable StepType = "compensatable"
	// Pivot is the point of no return: once it succeeds the saga is committed
	Pivot StepType = "pivot"
	// Retriable steps are retried until they succeed and are never compensated
	Retriable StepType = "retriable"
)

func (t StepType) String() string {
	return string(t)
}

// Step is a single entry of a saga catalog
type Step struct {
	Name         string
	Type         StepType
	Participant  Participant
	Forward      string
	Compensation string
	// Status is the run status reported once this step completes
	Status Status
}

// CanCompensate reports whether the step has an undo operation
func (s Step) CanCompensate() bool {
	return s.Type == Compensatable && s.Compensation != ""
}
