package course

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryRepository())
	_, err := svc.Create(context.Background(), CreateInput{
		Code: "cs101", Name: "Intro", Description: "Basics", SCU: 3,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateNormalizesCode(t *testing.T) {
	svc := newTestService(t)
	c, err := svc.Get(context.Background(), "Cs101")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Code != "CS101" || c.ID == "" {
		t.Fatalf("unexpected course %+v", c)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	tests := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{name: "missing code", input: CreateInput{Name: "n", Description: "d", SCU: 1}, want: ErrMissingFields},
		{name: "blank name", input: CreateInput{Code: "c", Name: "  ", Description: "d", SCU: 1}, want: ErrMissingFields},
		{name: "missing scu", input: CreateInput{Code: "c", Name: "n", Description: "d"}, want: ErrMissingFields},
		{name: "negative scu", input: CreateInput{Code: "c", Name: "n", Description: "d", SCU: -2}, want: ErrInvalidSCU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateDuplicate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{Code: "CS101", Name: "n", Description: "d", SCU: 1})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "cs101", Patch{Name: strPtr("Introduction"), SCU: intPtr(4)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Introduction" || updated.SCU != 4 || updated.Description != "Basics" {
		t.Fatalf("unexpected course %+v", updated)
	}
}

func TestUpdateRenamesCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "CS101", Patch{Code: strPtr("cs102")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Get(ctx, "CS101"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old code should be gone, got %v", err)
	}
	if _, err := svc.Get(ctx, "CS102"); err != nil {
		t.Fatalf("new code missing: %v", err)
	}
}

func TestUpdateErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateInput{Code: "CS200", Name: "n", Description: "d", SCU: 2}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Update(ctx, "CS101", Patch{Name: strPtr("")}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("empty patch: expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Update(ctx, "CS101", Patch{SCU: intPtr(-1)}); !errors.Is(err, ErrInvalidSCU) {
		t.Fatalf("expected ErrInvalidSCU, got %v", err)
	}
	if _, err := svc.Update(ctx, "NOPE", Patch{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "CS101", Patch{Code: strPtr("cs200")}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.Delete(ctx, "cs101"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "cs101"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty catalogue, got %v %v", list, err)
	}
}
