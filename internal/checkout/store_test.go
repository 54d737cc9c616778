package checkout

import (
	"context"
	"fmt"
	"sync"

	"givehubtel/internal/models"
)

// fakeStore is an in-memory DonationStore for tests.
type fakeStore struct {
	mu        sync.Mutex
	nextID    uint
	donations map[uint]*models.Donation
	notes     map[uint][]string
	errors    []models.GatewayError

	createErr   error
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		donations: make(map[uint]*models.Donation),
		notes:     make(map[uint][]string),
	}
}

func (s *fakeStore) seed(d models.Donation) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d.ID = s.nextID
	s.donations[d.ID] = &d
	return d.ID
}

func (s *fakeStore) CreatePending(d *models.Donation) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	d.ID = s.nextID
	d.Status = models.StatusPending
	copied := *d
	s.donations[d.ID] = &copied
	return d.ID, nil
}

func (s *fakeStore) FindByID(id uint) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, fmt.Errorf("donation %d not found", id)
	}
	copied := *d
	return &copied, nil
}

func (s *fakeStore) Status(id uint) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return "", fmt.Errorf("donation %d not found", id)
	}
	return d.Status, nil
}

func (s *fakeStore) MarkCompleted(id uint, transactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok || d.Status == models.StatusCompleted {
		return false, nil
	}
	d.Status = models.StatusCompleted
	d.TransactionID = transactionID
	return true, nil
}

func (s *fakeStore) AppendNote(id uint, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[id] = append(s.notes[id], note)
	return nil
}

func (s *fakeStore) RecordGatewayError(title, message string, donationID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, models.GatewayError{Title: title, Message: message, DonationID: donationID})
	return nil
}

// staticNonce approves or rejects every token.
type staticNonce bool

func (v staticNonce) Validate(_ context.Context, _ string) bool { return bool(v) }
