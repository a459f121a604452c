package jobs

import (
	"log"
	"sync"
	"time"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
	"github.com/kalyan-enterprises/rsa-backend/internal/services"
	"github.com/kalyan-enterprises/rsa-backend/internal/storage"
)

// ExpiryReminderJob sends the admin a daily summary of policies that are
// expiring within the next 30 days
type ExpiryReminderJob struct {
	store        storage.Store
	emailService *services.EmailService

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewExpiryReminderJob creates a new expiry reminder scheduler
func NewExpiryReminderJob(store storage.Store, emailService *services.EmailService) *ExpiryReminderJob {
	return &ExpiryReminderJob{
		store:        store,
		emailService: emailService,
	}
}

// Start begins the scheduled job
func (j *ExpiryReminderJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		log.Println("Expiry reminder job already running")
		return
	}

	j.running = true
	j.stop = make(chan struct{})
	log.Println("Starting expiry reminder job...")
	go j.scheduleDailyCheck(j.stop)
}

// Stop halts the scheduled job; the scheduler goroutine exits promptly
// instead of sleeping out the day
func (j *ExpiryReminderJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}

	j.running = false
	close(j.stop)
	log.Println("Stopping expiry reminder job...")
}

// scheduleDailyCheck runs every day at 9 AM
func (j *ExpiryReminderJob) scheduleDailyCheck(stop <-chan struct{}) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		duration := next.Sub(now)
		log.Printf("Next expiry check in %v", duration)

		timer := time.NewTimer(duration)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			j.checkExpiringPolicies()
		}
	}
}

// checkExpiringPolicies finds and reports policies expiring within 30 days,
// returning how many it found
func (j *ExpiryReminderJob) checkExpiringPolicies() int {
	policies, err := j.store.GetAllPolicies()
	if err != nil {
		log.Printf("Error getting policies for expiry check: %v", err)
		return 0
	}

	now := time.Now()
	expiring := 0
	for _, policy := range policies {
		if policy.StatusAt(now) != models.PolicyStatusExpiringSoon {
			continue
		}
		expiring++

		if j.emailService == nil {
			continue
		}
		customer, err := j.store.GetCustomer(policy.CustomerID)
		if err != nil {
			log.Printf("Customer %s not found for expiring policy %s", policy.CustomerID, policy.PolicyNumber)
			continue
		}
		j.emailService.SendExpiryReminder(policy, customer)
	}

	log.Printf("Expiry check complete: %d policies expiring within %d days", expiring, models.ExpiringSoonDays)
	return expiring
}
