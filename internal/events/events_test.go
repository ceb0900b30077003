package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-booking/internal/models"
)

func TestStatusTopic(t *testing.T) {
	assert.Equal(t, "fleet/bookings/abc/status", StatusTopic("fleet", "abc"))
}

func TestStatusChanged_JSON(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(StatusChanged{
		BookingID: "b1",
		Status:    models.StatusCompleted,
		ChangedBy: "u1",
		Timestamp: ts,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookingId":"b1","status":"completed","changedBy":"u1","timestamp":"2024-05-01T10:00:00Z"}`, string(payload))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishStatus(context.Background(), StatusChanged{BookingID: "b1"}))
	p.Close()
}

func TestNewMQTTPublisher_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping broker dial in short mode")
	}
	_, err := NewMQTTPublisher("tcp://127.0.0.1:1", "test", "fleet")
	assert.Error(t, err)
}
