package task

import (
	"context"
	"slices"
	"testing"

	"github.com/Iron-Ham/upkeep/internal/command"
)

func TestOutcomeConstructors(t *testing.T) {
	tests := []struct {
		name string
		got  Outcome
		want Outcome
	}{
		{"success", Success("Docker", "docker objects pruned"), Outcome{"Docker", true, "docker objects pruned"}},
		{"success default", Success("Docker", ""), Outcome{"Docker", true, "succeeded"}},
		{"failure", Failure("Docker", "docker prune failed"), Outcome{"Docker", false, "docker prune failed"}},
		{"failure default", Failure("Docker", ""), Outcome{"Docker", false, "failed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestOutcomeNormalize(t *testing.T) {
	if got := (Outcome{}).Normalize("Cache"); got != (Outcome{"Cache", false, "failed"}) {
		t.Errorf("Normalize(zero) = %+v", got)
	}
	if got := (Outcome{Succeeded: true}).Normalize("Cache"); got != (Outcome{"Cache", true, "succeeded"}) {
		t.Errorf("Normalize(success) = %+v", got)
	}
	kept := Outcome{Label: "Other", Succeeded: true, Message: "fine"}
	if got := kept.Normalize("Cache"); got != kept {
		t.Errorf("Normalize should keep existing fields, got %+v", got)
	}
}

func TestPhase(t *testing.T) {
	if Sequential.String() != "sequential" || Parallel.String() != "parallel" {
		t.Errorf("String() = %q, %q", Sequential, Parallel)
	}
	if Phase(7).String() != "unknown" || Phase(7).Valid() {
		t.Error("Phase(7) should be unknown and invalid")
	}
}

func TestPrivileged(t *testing.T) {
	step := Privileged("sudo", "paccache", "-rk1")
	if step.Command != "sudo" || !slices.Equal(step.Args, []string{"paccache", "-rk1"}) {
		t.Errorf("Privileged(sudo) = %+v", step)
	}

	step = Privileged("", "paccache", "-rk1")
	if step.Command != "paccache" || !slices.Equal(step.Args, []string{"-rk1"}) {
		t.Errorf("Privileged(\"\") = %+v", step)
	}
}

func TestStepWithDoesNotAlias(t *testing.T) {
	base := Step{Command: "sudo", Args: make([]string, 2, 8)}
	base.Args[0], base.Args[1] = "pacman", "-Rns"

	a := base.With("foo")
	b := base.With("bar")
	if a.Args[2] != "foo" || b.Args[2] != "bar" {
		t.Errorf("With() results share storage: %v %v", a.Args, b.Args)
	}
	if len(base.Args) != 2 {
		t.Errorf("With() modified the receiver: %v", base.Args)
	}
}

func TestSequence(t *testing.T) {
	spec := SequenceSpec{
		Name:  "cache",
		Label: "Cache",
		Phase: Parallel,
		Steps: []Step{
			{Command: "find", Args: []string{"/home/u/.cache", "-mindepth", "1", "-delete"}},
			{Command: "sudo", Args: []string{"find", "/tmp", "-mindepth", "1", "-delete"}},
		},
		SuccessMessage: "cache directories cleaned",
		FailureMessage: "cache directory clean-up failed",
	}

	tests := []struct {
		name      string
		failFirst bool
		failLast  bool
		want      Outcome
		wantCalls int
	}{
		{"all succeed", false, false, Success("Cache", "cache directories cleaned"), 2},
		{"first fails", true, false, Failure("Cache", "cache directory clean-up failed"), 1},
		{"last fails", false, true, Failure("Cache", "cache directory clean-up failed"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := command.NewFake(true).
				Script([]bool{!tt.failFirst}, "find", "/home/u/.cache", "-mindepth", "1", "-delete").
				Script([]bool{!tt.failLast}, "sudo", "find", "/tmp", "-mindepth", "1", "-delete")

			task := Sequence(spec, fake)
			if task.Name != "cache" || task.Phase != Parallel {
				t.Errorf("task = %+v", task)
			}
			if got := task.Run(context.Background()); got != tt.want {
				t.Errorf("Run() = %+v, want %+v", got, tt.want)
			}
			if n := len(fake.Calls()); n != tt.wantCalls {
				t.Errorf("calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}

	t.Run("no steps", func(t *testing.T) {
		task := Sequence(SequenceSpec{Name: "noop", Label: "Noop"}, command.NewFake(false))
		if got := task.Run(context.Background()); !got.Succeeded {
			t.Errorf("Run() = %+v, want success", got)
		}
	})
}
