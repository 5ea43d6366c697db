package task

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/upkeep/internal/command"
	"github.com/Iron-Ham/upkeep/internal/config"
)

func TestBuiltinOrder(t *testing.T) {
	reg := Builtin(config.Default(), command.NewFake(true), afero.NewMemMapFs())

	wantNames := []string{"mirror", "packages", "prune", "orphans", "cache", "docker", "toolchain"}
	if got := reg.Names(); !slices.Equal(got, wantNames) {
		t.Errorf("Names() = %v, want %v", got, wantNames)
	}

	wantLabels := []string{"Mirror", "Packages", "Prune", "Orphans", "Cache", "Docker", "Toolchain"}
	for i, task := range reg.Tasks() {
		if task.Label != wantLabels[i] {
			t.Errorf("task %s label = %q, want %q", task.Name, task.Label, wantLabels[i])
		}
		if task.Description == "" {
			t.Errorf("task %s has no description", task.Name)
		}
	}

	if n := len(reg.Phase(Sequential)); n != 2 {
		t.Errorf("sequential tasks = %d, want 2", n)
	}
	if n := len(reg.Phase(Parallel)); n != 5 {
		t.Errorf("parallel tasks = %d, want 5", n)
	}
}

func TestBuiltinCommands(t *testing.T) {
	cfg := config.Default()
	cfg.Commands.Sudo = "doas"
	cfg.Commands.AURHelper = "paru"
	cfg.Commands.ContainerRuntime = "podman"
	cfg.Commands.CacheDir = "/home/u/.cache"

	tests := []struct {
		task string
		want []string
	}{
		{"prune", []string{"doas paccache -rk1"}},
		{"cache", []string{"find /home/u/.cache -mindepth 1 -delete", "doas find /tmp -mindepth 1 -delete"}},
		{"docker", []string{"podman system prune -af"}},
		{"toolchain", []string{"rustup update"}},
		{"packages", []string{"paru --noconfirm"}},
		{"mirror", []string{"doas reflector --verbose --latest 10 --sort score --connection-timeout 3 --protocol https --save /etc/pacman.d/mirrorlist"}},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			fake := command.NewFake(true)
			reg := Builtin(cfg, fake, afero.NewMemMapFs())

			task, ok := reg.Lookup(tt.task)
			if !ok {
				t.Fatalf("Lookup(%s) failed", tt.task)
			}
			if got := task.Run(context.Background()); !got.Succeeded {
				t.Errorf("Run() = %+v, want success", got)
			}
			if got := fake.Lines(); !slices.Equal(got, tt.want) {
				t.Errorf("calls = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuiltinMessages(t *testing.T) {
	tests := []struct {
		task    string
		success string
		failure string
	}{
		{"prune", "package cache pruned", "package cache prune failed"},
		{"cache", "cache directories cleaned", "cache directory clean-up failed"},
		{"docker", "docker objects pruned", "docker prune failed"},
		{"toolchain", "rust toolchain updated", "rust toolchain update failed"},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			cfg := config.Default()
			cfg.Commands.CacheDir = "/home/u/.cache"
			for _, ok := range []bool{true, false} {
				reg := Builtin(cfg, command.NewFake(ok), afero.NewMemMapFs())
				task, _ := reg.Lookup(tt.task)
				got := task.Run(context.Background())

				want := tt.failure
				if ok {
					want = tt.success
				}
				if got.Succeeded != ok || got.Message != want {
					t.Errorf("Run() with commands succeeding=%v = %+v, want message %q", ok, got, want)
				}
			}
		})
	}
}

func TestCacheTask(t *testing.T) {
	tests := []struct {
		name      string
		dir       string
		wantCalls []string
		wantMsg   string
	}{
		{
			name:      "user cache dir",
			dir:       "/home/u/.cache",
			wantCalls: []string{"find /home/u/.cache -mindepth 1 -delete", "sudo find /tmp -mindepth 1 -delete"},
			wantMsg:   CacheCleanedMessage,
		},
		{
			name:      "no user cache dir",
			dir:       "",
			wantCalls: []string{"sudo find /tmp -mindepth 1 -delete"},
			wantMsg:   TmpOnlyCleanedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := command.NewFake(true)
			got := Cache("sudo", tt.dir, fake).Run(context.Background())
			if !got.Succeeded || got.Message != tt.wantMsg {
				t.Errorf("Run() = %+v, want success with %q", got, tt.wantMsg)
			}
			if calls := fake.Lines(); !slices.Equal(calls, tt.wantCalls) {
				t.Errorf("calls = %q, want %q", calls, tt.wantCalls)
			}
		})
	}
}

func TestBuiltinNilConfig(t *testing.T) {
	if reg := Builtin(nil, command.NewFake(true), afero.NewMemMapFs()); reg.Len() != 7 {
		t.Errorf("Len() = %d, want 7", reg.Len())
	}
}
