package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestFakeScript(t *testing.T) {
	ctx := context.Background()
	f := NewFake(true).Script([]bool{false, true}, "yay", "--noconfirm")

	want := []bool{false, true, true}
	for i, w := range want {
		if got := f.Execute(ctx, "yay", "--noconfirm"); got != w {
			t.Errorf("call %d: Execute() = %v, want %v", i, got, w)
		}
	}

	if !f.Execute(ctx, "rustup", "update") {
		t.Error("unscripted command should return the fallback")
	}
	if NewFake(false).Execute(ctx, "rustup", "update") {
		t.Error("unscripted command should return the fallback")
	}
}

func TestFakeCaptureAndCalls(t *testing.T) {
	ctx := context.Background()
	f := NewFake(true).Output("  foo\nbar\n", "pacman", "-Qtdq")

	if got := f.Capture(ctx, "pacman", "-Qtdq"); got != "foo\nbar" {
		t.Errorf("Capture() = %q", got)
	}
	if got := f.Capture(ctx, "pacman", "-Qq"); got != "" {
		t.Errorf("unscripted Capture() = %q, want empty", got)
	}
	f.Execute(ctx, "sudo", "pacman", "-Rns", "--noconfirm", "foo", "bar")

	calls := f.Calls()
	if len(calls) != 3 {
		t.Fatalf("len(Calls()) = %d, want 3", len(calls))
	}
	if !calls[0].Capture || calls[2].Capture {
		t.Errorf("Capture flags = %v, %v", calls[0].Capture, calls[2].Capture)
	}

	lines := f.Lines()
	wantLines := []string{"pacman -Qtdq", "pacman -Qq", "sudo pacman -Rns --noconfirm foo bar"}
	for i, want := range wantLines {
		if lines[i] != want {
			t.Errorf("Lines()[%d] = %q, want %q", i, lines[i], want)
		}
	}
	if n := f.Count("pacman", "-Qtdq"); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestFakeConcurrentUse(t *testing.T) {
	ctx := context.Background()
	f := NewFake(true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				f.Execute(ctx, "task", fmt.Sprint(i), fmt.Sprint(j))
			}
		}()
	}
	wg.Wait()

	if n := len(f.Calls()); n != 250 {
		t.Errorf("len(Calls()) = %d, want 250", n)
	}
	if n := f.Count("task", "3", "7"); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestFakeImplementsRunner(t *testing.T) {
	var _ Runner = NewFake(true)
	var _ Runner = NewExecRunner()
}
