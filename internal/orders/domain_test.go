package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancellableStatuses(t *testing.T) {
	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusConfirmed.Cancellable())

	for _, s := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
		assert.False(t, s.Cancellable(), "status=%s", s)
	}
}

func TestForwardTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusProcessing))
	assert.True(t, CanTransition(StatusProcessing, StatusShipped))
	assert.True(t, CanTransition(StatusShipped, StatusDelivered))

	assert.False(t, CanTransition(StatusPending, StatusShipped))
	assert.False(t, CanTransition(StatusDelivered, StatusPending))
}

func TestCancellationTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))
	assert.False(t, CanTransition(StatusProcessing, StatusCancelled))
	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusCancelled, StatusRefunded} {
		assert.True(t, s.Terminal(), "status=%s", s)
	}
	assert.False(t, StatusPending.Terminal())

	// Refunded is terminal and unreachable through cancellation.
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered} {
		assert.False(t, CanTransition(from, StatusRefunded), "from=%s", from)
	}
}
