package course

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Course
}

// NewMemoryRepository constructs an in-memory repository for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Course)}
}

func (r *memoryRepository) Create(_ context.Context, c Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[c.Code]; exists {
		return ErrDuplicate
	}
	r.storage[c.Code] = c
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	courses := make([]Course, 0, len(r.storage))
	for _, c := range r.storage {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (r *memoryRepository) Get(_ context.Context, code string) (Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.storage[code]
	if !ok {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) Update(_ context.Context, code string, patch Patch) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[code]
	if !ok {
		return Course{}, ErrNotFound
	}
	if patch.Code != nil && *patch.Code != code {
		if _, taken := r.storage[*patch.Code]; taken {
			return Course{}, ErrDuplicate
		}
	}

	if patch.Code != nil {
		c.Code = *patch.Code
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.SCU != nil {
		c.SCU = *patch.SCU
	}
	c.UpdatedAt = time.Now().UTC()

	delete(r.storage, code)
	r.storage[c.Code] = c
	return c, nil
}

func (r *memoryRepository) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[code]; !ok {
		return ErrNotFound
	}
	delete(r.storage, code)
	return nil
}
