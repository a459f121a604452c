package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalyan-enterprises/rsa-backend/internal/models"
)

var (
	ErrSessionNotFound = errors.New("wizard session not found or expired")
	ErrUnknownPlan     = errors.New("unknown plan")
)

// WizardSession holds the in-progress purchase state carried across the
// select-plan / enter-details / pay / confirm steps. It replaces the
// client-side context + localStorage snapshot of the storefront.
type WizardSession struct {
	SessionID string `json:"sessionId"`

	// Plan selection
	PlanID        string  `json:"planId"`
	PolicyType    string  `json:"policyType"`
	Amount        float64 `json:"amount"`
	OriginalPrice float64 `json:"originalPrice"`
	Duration      string  `json:"duration"`

	// Customer details
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Address       string `json:"address"`
	City          string `json:"city"`
	VehicleNumber string `json:"vehicleNumber"`
	TermsAccepted bool   `json:"termsAccepted"`

	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// WizardSessionManager manages purchase wizard sessions
type WizardSessionManager struct {
	sessions   map[string]*WizardSession
	mu         sync.RWMutex
	sessionTTL time.Duration
}

// NewWizardSessionManager creates a new session manager and starts the
// expiry cleanup routine
func NewWizardSessionManager() *WizardSessionManager {
	sm := &WizardSessionManager{
		sessions:   make(map[string]*WizardSession),
		sessionTTL: 30 * time.Minute,
	}

	go sm.cleanupExpiredSessions()

	return sm
}

// Start creates a fresh wizard session
func (sm *WizardSessionManager) Start() *WizardSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	session := &WizardSession{
		SessionID:  uuid.NewString(),
		CreatedAt:  now,
		LastActive: now,
		ExpiresAt:  now.Add(sm.sessionTTL),
	}
	sm.sessions[session.SessionID] = session
	return session
}

// Get returns the session snapshot, refreshing its TTL. A page refresh on
// the client restores state from this.
func (sm *WizardSessionManager) Get(sessionID string) (*WizardSession, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	sm.touch(session)
	return session, nil
}

// SelectPlan records the chosen plan on the session
func (sm *WizardSessionManager) SelectPlan(sessionID, planID string) (*WizardSession, error) {
	plan, found := models.FindPlan(planID)
	if !found {
		return nil, ErrUnknownPlan
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	session.PlanID = plan.ID
	session.PolicyType = plan.Type
	session.Amount = plan.Price
	session.OriginalPrice = plan.OriginalPrice
	session.Duration = plan.Duration
	sm.touch(session)
	return session, nil
}

// UpdateDetails merges the customer form fields into the session
func (sm *WizardSessionManager) UpdateDetails(sessionID string, details *models.CustomerInput, termsAccepted bool) (*WizardSession, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	session.CustomerName = details.CustomerName
	session.Email = details.Email
	session.PhoneNumber = details.PhoneNumber
	session.Address = details.Address
	session.City = details.City
	session.VehicleNumber = details.VehicleNumber
	session.TermsAccepted = termsAccepted
	sm.touch(session)
	return session, nil
}

// Complete drops the session once the purchase is confirmed
func (sm *WizardSessionManager) Complete(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sessionID)
}

// ActiveSessions returns the number of live sessions
func (sm *WizardSessionManager) ActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *WizardSessionManager) touch(session *WizardSession) {
	session.LastActive = time.Now()
	session.ExpiresAt = time.Now().Add(sm.sessionTTL)
}

// cleanupExpiredSessions removes expired sessions every 5 minutes
func (sm *WizardSessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()
		now := time.Now()
		for id, session := range sm.sessions {
			if now.After(session.ExpiresAt) {
				delete(sm.sessions, id)
			}
		}
		remaining := len(sm.sessions)
		sm.mu.Unlock()

		log.Printf("Session cleanup complete, %d active sessions", remaining)
	}
}
