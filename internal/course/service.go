package course

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service exposes course catalogue operations.
type Service struct {
	repo Repository
}

// NewService builds a course service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a course.
type CreateInput struct {
	Code        string
	Name        string
	Description string
	SCU         int
}

// Create validates and stores a new course.
func (s *Service) Create(ctx context.Context, input CreateInput) (Course, error) {
	code := NormalizeCode(input.Code)
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if code == "" || name == "" || description == "" || input.SCU == 0 {
		return Course{}, ErrMissingFields
	}
	if input.SCU < 0 {
		return Course{}, ErrInvalidSCU
	}

	now := time.Now().UTC()
	c := Course{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Description: description,
		SCU:         input.SCU,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Course{}, err
	}
	return c, nil
}

// List returns the whole catalogue.
func (s *Service) List(ctx context.Context) ([]Course, error) {
	return s.repo.List(ctx)
}

// Get retrieves one course; the code is case-insensitive.
func (s *Service) Get(ctx context.Context, code string) (Course, error) {
	return s.repo.Get(ctx, NormalizeCode(code))
}

// Update applies a partial update. Empty strings in the patch are treated as
// absent, matching how the create path treats them as missing.
func (s *Service) Update(ctx context.Context, code string, patch Patch) (Course, error) {
	patch = cleanPatch(patch)
	if patch.Empty() {
		return Course{}, ErrMissingFields
	}
	if patch.SCU != nil && *patch.SCU <= 0 {
		return Course{}, ErrInvalidSCU
	}
	return s.repo.Update(ctx, NormalizeCode(code), patch)
}

// Delete removes a course by code.
func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, NormalizeCode(code))
}

func cleanPatch(p Patch) Patch {
	trimmed := func(v *string, normalize func(string) string) *string {
		if v == nil {
			return nil
		}
		out := normalize(*v)
		if out == "" {
			return nil
		}
		return &out
	}
	p.Code = trimmed(p.Code, NormalizeCode)
	p.Name = trimmed(p.Name, strings.TrimSpace)
	p.Description = trimmed(p.Description, strings.TrimSpace)
	if p.SCU != nil && *p.SCU == 0 {
		p.SCU = nil
	}
	return p
}
