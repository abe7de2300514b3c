package saga

import (
	"github.com/pkg/errors"
)

var ErrInvalidCatalog = errors.New("invalid saga catalog")

// Catalog is the immutable, ordered list of steps of a saga
type Catalog struct {
	name  string
	steps []Step
	index map[string]int
	pivot int
}

// Definition builds a Catalog step by step
type Definition struct {
	name  string
	steps []Step
}

// NewDefinition starts a new saga definition
func NewDefinition(name string) *Definition {
	return &Definition{name: name}
}

// Compensatable appends a step that is undone by the compensation operation on failure
func (d *Definition) Compensatable(name string, participant Participant, forward, compensation string, status Status) *Definition {
	d.steps = append(d.steps, Step{
		Name:         name,
		Type:         Compensatable,
		Participant:  participant,
		Forward:      forward,
		Compensation: compensation,
		Status:       status,
	})
	return d
}

// Pivot appends the point of no return
func (d *Definition) Pivot(name string, participant Participant, forward string, status Status) *Definition {
	d.steps = append(d.steps, Step{
		Name:        name,
		Type:        Pivot,
		Participant: participant,
		Forward:     forward,
		Status:      status,
	})
	return d
}

// Retriable appends a step that is retried according to the orchestrator retry policy
func (d *Definition) Retriable(name string, participant Participant, forward string, status Status) *Definition {
	d.steps = append(d.steps, Step{
		Name:        name,
		Type:        Retriable,
		Participant: participant,
		Forward:     forward,
		Status:      status,
	})
	return d
}

// Build validates the definition and returns the catalog
func (d *Definition) Build() (*Catalog, error) {
	if d.name == "" {
		return nil, errors.Wrap(ErrInvalidCatalog, "saga name is required")
	}

	catalog := &Catalog{
		name:  d.name,
		steps: make([]Step, len(d.steps)),
		index: make(map[string]int, len(d.steps)),
		pivot: -1,
	}
	copy(catalog.steps, d.steps)

	for i, step := range catalog.steps {
		if err := validateStep(step); err != nil {
			return nil, err
		}

		if _, exists := catalog.index[step.Name]; exists {
			return nil, errors.Wrapf(ErrInvalidCatalog, "duplicate step %q", step.Name)
		}
		catalog.index[step.Name] = i

		if catalog.pivot >= 0 && step.Type != Retriable {
			return nil, errors.Wrapf(ErrInvalidCatalog, "step %q follows the pivot but is not retriable", step.Name)
		}

		if step.Type == Pivot {
			catalog.pivot = i
		}
	}

	return catalog, nil
}

func validateStep(step Step) error {
	if step.Name == "" {
		return errors.Wrap(ErrInvalidCatalog, "step name is required")
	}

	if step.Participant == nil {
		return errors.Wrapf(ErrInvalidCatalog, "step %q has no participant", step.Name)
	}

	if step.Forward == "" {
		return errors.Wrapf(ErrInvalidCatalog, "step %q has no forward operation", step.Name)
	}

	switch step.Type {
	case Compensatable:
		if step.Compensation == "" {
			return errors.Wrapf(ErrInvalidCatalog, "compensatable step %q has no compensation operation", step.Name)
		}
	case Pivot, Retriable:
		if step.Compensation != "" {
			return errors.Wrapf(ErrInvalidCatalog, "%s step %q cannot be compensated", step.Type, step.Name)
		}
	default:
		return errors.Wrapf(ErrInvalidCatalog, "step %q has unknown type %q", step.Name, step.Type)
	}

	if step.Status == "" {
		return errors.Wrapf(ErrInvalidCatalog, "step %q has no progress status", step.Name)
	}

	return nil
}

// Name returns the saga name
func (c *Catalog) Name() string {
	return c.name
}

// Steps returns a copy of the ordered steps
func (c *Catalog) Steps() []Step {
	steps := make([]Step, len(c.steps))
	copy(steps, c.steps)
	return steps
}

// Step looks up a step by name
func (c *Catalog) Step(name string) (Step, bool) {
	i, ok := c.index[name]
	if !ok {
		return Step{}, false
	}
	return c.steps[i], true
}

// Len returns the number of steps
func (c *Catalog) Len() int {
	return len(c.steps)
}

// Committed reports whether the pivot step is among the completed steps
func (c *Catalog) Committed(completed []string) bool {
	if c.pivot < 0 {
		return false
	}
	pivot := c.steps[c.pivot].Name
	for _, name := range completed {
		if name == pivot {
			return true
		}
	}
	return false
}
