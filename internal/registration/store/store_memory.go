package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"regdesk/internal/registration/models"
	"regdesk/pkg/platform/sentinel"
)

// InMemoryStore stores registration records in memory for tests and dev mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*models.Registration
	nextID  int64
	clock   func() time.Time
}

// NewInMemory constructs an empty in-memory registration store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[int64]*models.Registration),
		nextID:  1,
		clock:   time.Now,
	}
}

// WithClock overrides the store's clock so tests can control CreatedAt.
func (s *InMemoryStore) WithClock(clock func() time.Time) *InMemoryStore {
	s.clock = clock
	return s
}

func (s *InMemoryStore) Create(_ context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	reg.ID = s.nextID
	s.nextID++
	reg.CreatedAt = now
	reg.UpdatedAt = now

	copyReg := *reg
	s.records[reg.ID] = &copyReg
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("registration %d: %w", id, sentinel.ErrNotFound)
	}
	copyReg := *record
	return &copyReg, nil
}

func (s *InMemoryStore) Update(_ context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[reg.ID]
	if !ok {
		return fmt.Errorf("registration %d: %w", reg.ID, sentinel.ErrNotFound)
	}
	reg.CreatedAt = existing.CreatedAt
	reg.UpdatedAt = s.clock()

	copyReg := *reg
	s.records[reg.ID] = &copyReg
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("registration %d: %w", id, sentinel.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter models.Filter, page models.Page) ([]*models.Registration, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Registration
	for _, record := range s.records {
		if matches(record, filter) {
			copyReg := *record
			matched = append(matched, &copyReg)
		}
	}

	// Most recent first; ID breaks ties for records created in the same instant.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return []*models.Registration{}, total, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *InMemoryStore) DistinctStates(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var states []string
	for _, record := range s.records {
		if !seen[record.State] {
			seen[record.State] = true
			states = append(states, record.State)
		}
	}
	sort.Strings(states)
	return states, nil
}

func (s *InMemoryStore) DistinctCities(_ context.Context, state string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var cities []string
	for _, record := range s.records {
		if state != "" && record.State != state {
			continue
		}
		if !seen[record.City] {
			seen[record.City] = true
			cities = append(cities, record.City)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

// Len returns the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func matches(record *models.Registration, filter models.Filter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(record.Name), needle) &&
			!strings.Contains(record.Mobile, filter.Search) &&
			!strings.Contains(record.Aadhaar, filter.Search) {
			return false
		}
	}
	if filter.State != "" && record.State != filter.State {
		return false
	}
	if filter.City != "" && record.City != filter.City {
		return false
	}
	if filter.Gender != "" && string(record.Gender) != filter.Gender {
		return false
	}
	return true
}
