package task

import (
	"context"
	"slices"
	"testing"

	"github.com/Iron-Ham/upkeep/internal/errors"
)

func stub(name string, phase Phase) Task {
	return Task{
		Name:  name,
		Phase: phase,
		Run:   func(context.Context) Outcome { return Success(name, "") },
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(
		stub("mirror", Sequential),
		stub("prune", Parallel),
		stub("packages", Sequential),
		stub("docker", Parallel),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if got := reg.Names(); !slices.Equal(got, []string{"mirror", "prune", "packages", "docker"}) {
		t.Errorf("Names() = %v", got)
	}
	if reg.Len() != 4 {
		t.Errorf("Len() = %d, want 4", reg.Len())
	}

	var seq []string
	for _, task := range reg.Phase(Sequential) {
		seq = append(seq, task.Name)
	}
	if !slices.Equal(seq, []string{"mirror", "packages"}) {
		t.Errorf("Phase(Sequential) = %v", seq)
	}

	task, ok := reg.Lookup("docker")
	if !ok || task.Phase != Parallel {
		t.Errorf("Lookup(docker) = %+v, %v", task, ok)
	}
	if task.Label != "docker" {
		t.Errorf("missing label should default to the name, got %q", task.Label)
	}
	if _, ok := reg.Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestNewRegistryRejects(t *testing.T) {
	noRun := stub("cache", Parallel)
	noRun.Run = nil

	tests := []struct {
		name      string
		tasks     []Task
		duplicate bool
	}{
		{"empty name", []Task{stub(" ", Parallel)}, false},
		{"nil run", []Task{noRun}, false},
		{"unknown phase", []Task{stub("cache", Phase(9))}, false},
		{"duplicate name", []Task{stub("cache", Parallel), stub("cache", Sequential)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.tasks...)
			if err == nil {
				t.Fatal("NewRegistry() should fail")
			}
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("error should be a config error: %v", err)
			}
			if got := errors.Is(err, errors.ErrDuplicateTask); got != tt.duplicate {
				t.Errorf("Is(ErrDuplicateTask) = %v, want %v", got, tt.duplicate)
			}
		})
	}
}

func TestRegistryWithout(t *testing.T) {
	reg, err := NewRegistry(
		stub("mirror", Sequential),
		stub("packages", Sequential),
		stub("prune", Parallel),
		stub("docker", Parallel),
		stub("toolchain", Parallel),
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"no patterns", nil, []string{"mirror", "packages", "prune", "docker", "toolchain"}},
		{"exact name", []string{"docker"}, []string{"mirror", "packages", "prune", "toolchain"}},
		{"wildcard", []string{"p*"}, []string{"mirror", "docker", "toolchain"}},
		{"alternatives", []string{"{docker,toolchain}"}, []string{"mirror", "packages", "prune"}},
		{"everything", []string{"*"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Without(tt.patterns)
			if err != nil {
				t.Fatalf("Without() error = %v", err)
			}
			if names := got.Names(); !slices.Equal(names, tt.want) {
				t.Errorf("Names() = %v, want %v", names, tt.want)
			}
		})
	}

	t.Run("pattern matching nothing", func(t *testing.T) {
		_, err := reg.Without([]string{"dokcer"})
		if !errors.Is(err, errors.ErrUnknownTask) {
			t.Errorf("Without() error = %v, want ErrUnknownTask", err)
		}
	})

	t.Run("malformed pattern", func(t *testing.T) {
		_, err := reg.Without([]string{"[docker"})
		var cfgErr *errors.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Field != "tasks.skip[0]" {
			t.Errorf("Without() error = %v, want ConfigError on tasks.skip[0]", err)
		}
	})

	if reg.Len() != 5 {
		t.Errorf("Without() modified the receiver, Len() = %d", reg.Len())
	}
}
