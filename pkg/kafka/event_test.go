package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	event, err := NewEvent("order.created", "order-1", "order", "storefront", map[string]string{
		"order_id": "order-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "order.created", event.EventType)
	assert.Equal(t, "order-1", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, "storefront", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalData(t *testing.T) {
	type payload struct {
		UserID string `json:"user_id"`
		Phone  string `json:"phone"`
	}

	event, err := NewEvent("user.phone_verified", "user-1", "user", "storefront", payload{
		UserID: "user-1",
		Phone:  "9876543210",
	})
	require.NoError(t, err)

	var got payload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "9876543210", got.Phone)
}

func TestNewEvent_UnmarshalableData_ReturnsError(t *testing.T) {
	_, err := NewEvent("order.created", "order-1", "order", "storefront", make(chan int))
	assert.Error(t, err)
}

func TestEvent_WithCorrelationIDAndMetadata(t *testing.T) {
	event, err := NewEvent("order.created", "order-1", "order", "storefront", nil)
	require.NoError(t, err)

	event.WithCorrelationID("corr-1").WithMetadata("attempt", "1")

	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, "1", event.Metadata["attempt"])
}
