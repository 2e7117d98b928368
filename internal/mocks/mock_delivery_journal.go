package mocks

import (
	"sync"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// MockDeliveryJournal implements domain.DeliveryJournal for testing
type MockDeliveryJournal struct {
	AppendFunc func(record *domain.DeliveryRecord) error
	RecentFunc func(limit int) ([]domain.DeliveryRecord, error)

	mu      sync.Mutex
	records []domain.DeliveryRecord
}

// NewMockDeliveryJournal creates a new MockDeliveryJournal with default behaviors
func NewMockDeliveryJournal() *MockDeliveryJournal {
	return &MockDeliveryJournal{}
}

// Append records a delivery attempt
func (m *MockDeliveryJournal) Append(record *domain.DeliveryRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

// Recent returns recorded attempts, newest first
func (m *MockDeliveryJournal) Recent(limit int) ([]domain.DeliveryRecord, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.DeliveryRecord{}
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// Records returns everything appended so far, oldest first
func (m *MockDeliveryJournal) Records() []domain.DeliveryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.DeliveryRecord{}, m.records...)
}

// Compile-time interface compliance verification
var _ domain.DeliveryJournal = (*MockDeliveryJournal)(nil)
