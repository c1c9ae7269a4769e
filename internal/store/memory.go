package store

import (
	"context"
	"sort"
	"sync"

	"github.com/zeroshade/marinaapi/types"
)

// Memory keeps boats and slips in process. Ids start at 1 and are never reused.
type Memory struct {
	mu     sync.RWMutex
	nextID int64
	boats  map[int64]types.Boat
	slips  map[int64]types.Slip
}

func NewMemory() *Memory {
	return &Memory{
		boats: make(map[int64]types.Boat),
		slips: make(map[int64]types.Slip),
	}
}

func (m *Memory) allocID() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) ListBoats(ctx context.Context) ([]types.Boat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	boats := make([]types.Boat, 0, len(m.boats))
	for _, b := range m.boats {
		boats = append(boats, b)
	}
	sort.Slice(boats, func(i, j int) bool { return boats[i].ID < boats[j].ID })
	return boats, nil
}

func (m *Memory) GetBoat(ctx context.Context, id int64) (*types.Boat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.boats[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *Memory) CreateBoat(ctx context.Context, b *types.Boat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b.ID = m.allocID()
	m.boats[b.ID] = *b
	return nil
}

func (m *Memory) SaveBoat(ctx context.Context, b *types.Boat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boats[b.ID]; !ok {
		return ErrNotFound
	}
	m.boats[b.ID] = *b
	return nil
}

func (m *Memory) DeleteBoat(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boats[id]; !ok {
		return ErrNotFound
	}
	delete(m.boats, id)
	return nil
}

func (m *Memory) ListSlips(ctx context.Context) ([]types.Slip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slips := make([]types.Slip, 0, len(m.slips))
	for _, s := range m.slips {
		slips = append(slips, copySlip(s))
	}
	sort.Slice(slips, func(i, j int) bool { return slips[i].ID < slips[j].ID })
	return slips, nil
}

func (m *Memory) GetSlip(ctx context.Context, id int64) (*types.Slip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.slips[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = copySlip(s)
	return &s, nil
}

func (m *Memory) CreateSlip(ctx context.Context, s *types.Slip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = m.allocID()
	s.CurrentBoat = nil
	m.slips[s.ID] = *s
	return nil
}

func (m *Memory) AssignSlip(ctx context.Context, slipID, boatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slips[slipID]
	if !ok {
		return ErrNotFound
	}
	if s.Occupied() {
		return ErrConflict
	}
	s.CurrentBoat = &boatID
	m.slips[slipID] = s
	return nil
}

func (m *Memory) ReleaseSlip(ctx context.Context, slipID, boatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slips[slipID]
	if !ok {
		return ErrNotFound
	}
	if !s.Holds(boatID) {
		return ErrConflict
	}
	s.CurrentBoat = nil
	m.slips[slipID] = s
	return nil
}

func (m *Memory) ClearSlip(ctx context.Context, slipID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slips[slipID]
	if !ok {
		return ErrNotFound
	}
	s.CurrentBoat = nil
	m.slips[slipID] = s
	return nil
}

func (m *Memory) ClearBoatFromSlips(ctx context.Context, boatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.slips {
		if s.Holds(boatID) {
			s.CurrentBoat = nil
			m.slips[id] = s
		}
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }
func (m *Memory) Close() error                   { return nil }

// copySlip detaches the CurrentBoat pointer from the stored value
func copySlip(s types.Slip) types.Slip {
	if s.CurrentBoat != nil {
		cur := *s.CurrentBoat
		s.CurrentBoat = &cur
	}
	return s
}
