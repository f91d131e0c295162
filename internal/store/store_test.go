package store

import (
	"path/filepath"
	"testing"
)

// each Store implementation must satisfy the same contract.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestStorePutGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			se := &SavedExpression{Name: "parabola", Raw: "x^2", Normalized: "x^2", Kind: "explicit"}
			if err := s.Put(se); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := s.Get("parabola")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil {
				t.Fatal("Get returned nil for stored expression")
			}
			if got.Raw != "x^2" || got.Kind != "explicit" {
				t.Errorf("Get = %+v", got)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get("absent")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != nil {
				t.Errorf("Get(absent) = %+v, want nil", got)
			}
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(&SavedExpression{Name: "f", Raw: "x", Normalized: "x", Kind: "explicit"}); err != nil {
				t.Fatal(err)
			}
			if err := s.Put(&SavedExpression{Name: "f", Raw: "2*x", Normalized: "2*x", Kind: "explicit"}); err != nil {
				t.Fatal(err)
			}
			got, err := s.Get("f")
			if err != nil {
				t.Fatal(err)
			}
			if got.Raw != "2*x" {
				t.Errorf("Raw = %q, want overwritten value", got.Raw)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(&SavedExpression{Name: "f", Raw: "x", Normalized: "x", Kind: "explicit"}); err != nil {
				t.Fatal(err)
			}
			if err := s.Delete("f"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			got, err := s.Get("f")
			if err != nil {
				t.Fatal(err)
			}
			if got != nil {
				t.Error("expression still present after Delete")
			}
			// Deleting a missing name is not an error.
			if err := s.Delete("absent"); err != nil {
				t.Errorf("Delete(absent) = %v", err)
			}
		})
	}
}

func TestStorePutTimestamps(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			se := &SavedExpression{Name: "wave", Raw: "sin(x)", Normalized: "sin(x)", Kind: "explicit"}
			if err := s.Put(se); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if se.CreatedAt.IsZero() || se.UpdatedAt.IsZero() {
				t.Fatalf("Put left zero timestamps on the passed struct: %+v", se)
			}
			got, err := s.Get("wave")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
				t.Fatalf("Get returned zero timestamps: %+v", got)
			}
			created := got.CreatedAt

			update := &SavedExpression{Name: "wave", Raw: "cos(x)", Normalized: "cos(x)", Kind: "explicit"}
			if err := s.Put(update); err != nil {
				t.Fatalf("Put (overwrite): %v", err)
			}
			if !update.CreatedAt.Equal(created) {
				t.Errorf("overwrite changed CreatedAt: %v, want %v", update.CreatedAt, created)
			}
			got, err = s.Get("wave")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !got.CreatedAt.Equal(created) {
				t.Errorf("stored CreatedAt changed on overwrite: %v, want %v", got.CreatedAt, created)
			}
			if got.UpdatedAt.Before(got.CreatedAt) {
				t.Errorf("UpdatedAt %v precedes CreatedAt %v", got.UpdatedAt, got.CreatedAt)
			}
		})
	}
}

func TestStoreListOrdered(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"wave", "circle", "parabola"} {
				if err := s.Put(&SavedExpression{Name: n, Raw: "x", Normalized: "x", Kind: "explicit"}); err != nil {
					t.Fatal(err)
				}
			}
			got, err := s.List()
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			want := []string{"circle", "parabola", "wave"}
			if len(got) != len(want) {
				t.Fatalf("List returned %d entries, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].Name != want[i] {
					t.Errorf("List[%d] = %q, want %q", i, got[i].Name, want[i])
				}
			}
		})
	}
}

func TestMemoryCopiesOnReturn(t *testing.T) {
	s := NewMemory()
	if err := s.Put(&SavedExpression{Name: "f", Raw: "x", Normalized: "x", Kind: "explicit"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("f")
	if err != nil {
		t.Fatal(err)
	}
	got.Raw = "mutated"
	again, err := s.Get("f")
	if err != nil {
		t.Fatal(err)
	}
	if again.Raw != "x" {
		t.Error("stored value shares memory with the returned copy")
	}
}
