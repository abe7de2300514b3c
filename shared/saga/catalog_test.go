package saga

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopParticipant() Participant {
	return ParticipantFunc(func(context.Context, string, *Request) (*Outcome, error) {
		return Succeeded("ok"), nil
	})
}

func TestDefinition_Build(t *testing.T) {
	p := noopParticipant()

	tests := []struct {
		name          string
		definition    *Definition
		expectedError string
	}{
		{
			name: "valid order saga",
			definition: NewDefinition("order").
				Compensatable("Payment", p, "reserve", "refund", "PAYMENT_RESERVED").
				Compensatable("Inventory", p, "reserve", "release", "INVENTORY_RESERVED").
				Pivot("Shipping", p, "ship", "SHIPPED").
				Retriable("Notification", p, "send", "NOTIFICATION_SENT"),
		},
		{
			name:          "missing saga name",
			definition:    NewDefinition(""),
			expectedError: "saga name is required",
		},
		{
			name: "duplicate step",
			definition: NewDefinition("order").
				Compensatable("Payment", p, "reserve", "refund", "PAYMENT_RESERVED").
				Compensatable("Payment", p, "reserve", "refund", "PAYMENT_RESERVED"),
			expectedError: `duplicate step "Payment"`,
		},
		{
			name: "compensatable without compensation",
			definition: NewDefinition("order").
				Compensatable("Payment", p, "reserve", "", "PAYMENT_RESERVED"),
			expectedError: "has no compensation operation",
		},
		{
			name: "missing participant",
			definition: NewDefinition("order").
				Pivot("Shipping", nil, "ship", "SHIPPED"),
			expectedError: "has no participant",
		},
		{
			name: "missing forward operation",
			definition: NewDefinition("order").
				Retriable("Notification", p, "", "NOTIFICATION_SENT"),
			expectedError: "has no forward operation",
		},
		{
			name: "missing progress status",
			definition: NewDefinition("order").
				Pivot("Shipping", p, "ship", ""),
			expectedError: "has no progress status",
		},
		{
			name: "compensatable after pivot",
			definition: NewDefinition("order").
				Pivot("Shipping", p, "ship", "SHIPPED").
				Compensatable("Payment", p, "reserve", "refund", "PAYMENT_RESERVED"),
			expectedError: "follows the pivot but is not retriable",
		},
		{
			name: "two pivots",
			definition: NewDefinition("order").
				Pivot("Shipping", p, "ship", "SHIPPED").
				Pivot("Invoice", p, "issue", "INVOICED"),
			expectedError: "follows the pivot but is not retriable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := tt.definition.Build()

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.True(t, errors.Is(err, ErrInvalidCatalog))
				assert.Nil(t, catalog)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 4, catalog.Len())
		})
	}
}

func TestCatalog_StepsAreImmutable(t *testing.T) {
	catalog, err := NewDefinition("order").
		Compensatable("Payment", noopParticipant(), "reserve", "refund", "PAYMENT_RESERVED").
		Build()
	require.NoError(t, err)

	steps := catalog.Steps()
	steps[0].Name = "Changed"

	step, ok := catalog.Step("Payment")
	require.True(t, ok)
	assert.Equal(t, "Payment", step.Name)
	assert.True(t, step.CanCompensate())
	_, ok = catalog.Step("Changed")
	assert.False(t, ok)
}

func TestCatalog_Committed(t *testing.T) {
	p := noopParticipant()
	catalog, err := NewDefinition("order").
		Compensatable("Payment", p, "reserve", "refund", "PAYMENT_RESERVED").
		Pivot("Shipping", p, "ship", "SHIPPED").
		Build()
	require.NoError(t, err)

	assert.False(t, catalog.Committed([]string{"Payment"}))
	assert.True(t, catalog.Committed([]string{"Payment", "Shipping"}))

	noPivot, err := NewDefinition("refund").
		Compensatable("Payment", p, "reserve", "refund", "PAYMENT_RESERVED").
		Build()
	require.NoError(t, err)
	assert.False(t, noPivot.Committed([]string{"Payment"}))
}

func TestRunState_Complete(t *testing.T) {
	state := NewRunState("tx-1")
	step := Step{Name: "Payment", Status: "PAYMENT_RESERVED"}

	assert.True(t, state.Complete(step))
	assert.False(t, state.Complete(step))
	assert.Equal(t, []string{"Payment"}, state.CompletedSteps)
	assert.Equal(t, Status("PAYMENT_RESERVED"), state.Status)
	assert.False(t, state.Status.IsTerminal())

	state.Fail(FailedAtStep("Inventory"))
	assert.Equal(t, "Failed at step: Inventory", state.FailureReason)
	assert.True(t, state.Status.IsTerminal())
}
