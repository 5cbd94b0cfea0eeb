// Package store provides payroll.Store implementations.
package store

import (
	"sort"
	"strconv"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - The live in-process employee store
// =============================================================================

// Memory holds the employee records and the sequential id counter. The
// engine is single-writer by construction; the mutex only guards the API
// surface, which may serve concurrent readers.
type Memory struct {
	mu        sync.RWMutex
	employees map[string]*payroll.Employee
	nextID    int
}

func NewMemory() *Memory {
	return &Memory{employees: make(map[string]*payroll.Employee)}
}

func (m *Memory) GetByID(id string) (*payroll.Employee, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	return e, ok
}

// ListAll returns the live employees sorted by id for deterministic
// iteration. Callers mutate entries through Save.
func (m *Memory) ListAll() []*payroll.Employee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*payroll.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) Save(e *payroll.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

func (m *Memory) DeleteByID(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.employees[id]
	delete(m.employees, id)
	return ok
}

// NextID advances the sequential counter and returns the new id.
func (m *Memory) NextID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return strconv.Itoa(m.nextID)
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.employees)
}

// Snapshot deep-copies the whole store. Mutating the snapshot (or the live
// store afterwards) never affects the other side.
func (m *Memory) Snapshot() payroll.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return payroll.State{Employees: m.employees, NextID: m.nextID}.Clone()
}

// Restore replaces the live contents with a deep copy of the state, so a
// snapshot kept by the undo log stays reusable.
func (m *Memory) Restore(s payroll.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := s.Clone()
	m.employees = clone.Employees
	m.nextID = clone.NextID
}
