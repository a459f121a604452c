package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

func TestCheckExpiringPolicies(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Now()

	for _, expiry := range []time.Time{
		now.Add(10 * 24 * time.Hour),  // Expiring Soon
		now.Add(400 * 24 * time.Hour), // Active
		now.Add(-24 * time.Hour),      // Expired
	} {
		_, err := store.CreatePolicy(&models.Policy{
			PolicyType: "Standard Coverage",
			Duration:   "1 Year",
			ExpiryDate: expiry,
		})
		assert.NoError(t, err)
	}

	job := NewExpiryReminderJob(store, nil)
	assert.Equal(t, 1, job.checkExpiringPolicies())
}

func TestStartStopIdempotent(t *testing.T) {
	job := NewExpiryReminderJob(storage.NewMemoryStore(), nil)

	// Repeated Start/Stop must not double-start the scheduler or panic
	// on a double channel close
	job.Start()
	job.Start()
	job.Stop()
	job.Stop()

	// The job can be restarted after a stop
	job.Start()
	job.Stop()
}
