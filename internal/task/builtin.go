package task

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/upkeep/internal/command"
	"github.com/Iron-Ham/upkeep/internal/config"
)

// Cache task outcomes.
const (
	CacheCleanedMessage   = "cache directories cleaned"
	TmpOnlyCleanedMessage = "/tmp cleaned, no user cache directory found"
)

// Builtin returns the standard maintenance tasks in report order: mirror,
// packages, prune, orphans, cache, docker, toolchain.
func Builtin(cfg *config.Config, r command.Runner, fs afero.Fs) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	sudo := cfg.Commands.Sudo

	reg, err := NewRegistry(
		Mirror(MirrorSpec{
			Path:   cfg.Mirror.ListPath,
			MaxAge: cfg.Mirror.MaxAge(),
			Update: ReflectorStep(sudo, cfg.Mirror.ListPath),
		}, fs, r),
		Packages(PackagesSpec{
			Update:  Step{Command: cfg.Commands.AURHelper, Args: []string{"--noconfirm"}},
			Refresh: Privileged(sudo, "pacman-key", "--refresh-keys"),
		}, r),
		Sequence(SequenceSpec{
			Name:           "prune",
			Label:          "Prune",
			Phase:          Parallel,
			Description:    "pruning package cache...",
			Steps:          []Step{Privileged(sudo, "paccache", "-rk1")},
			SuccessMessage: "package cache pruned",
			FailureMessage: "package cache prune failed",
		}, r),
		Orphans(OrphansSpec{
			Query:  Step{Command: "pacman", Args: []string{"-Qtdq"}},
			Remove: Privileged(sudo, "pacman", "-Rns", "--noconfirm"),
		}, r),
		Cache(sudo, cfg.Commands.ResolveCacheDir(), r),
		Sequence(SequenceSpec{
			Name:           "docker",
			Label:          "Docker",
			Phase:          Parallel,
			Description:    "pruning docker objects...",
			Steps:          []Step{{Command: cfg.Commands.ContainerRuntime, Args: []string{"system", "prune", "-af"}}},
			SuccessMessage: "docker objects pruned",
			FailureMessage: "docker prune failed",
		}, r),
		Sequence(SequenceSpec{
			Name:           "toolchain",
			Label:          "Toolchain",
			Phase:          Parallel,
			Description:    "updating rust toolchain...",
			Steps:          []Step{{Command: "rustup", Args: []string{"update"}}},
			SuccessMessage: "rust toolchain updated",
			FailureMessage: "rust toolchain update failed",
		}, r),
	)
	if err != nil {
		// The builtin set is static; a failure here is a programming error.
		panic(fmt.Sprintf("builtin tasks: %v", err))
	}
	return reg
}

// Cache creates the task that empties the user cache directory and /tmp.
// With no cache directory only /tmp is cleaned, and the success message
// says so.
func Cache(sudo, dir string, r command.Runner) Task {
	spec := SequenceSpec{
		Name:           "cache",
		Label:          "Cache",
		Phase:          Parallel,
		Description:    "cleaning cache directories...",
		SuccessMessage: CacheCleanedMessage,
		FailureMessage: "cache directory clean-up failed",
	}
	if dir != "" {
		spec.Steps = append(spec.Steps, Step{Command: "find", Args: []string{dir, "-mindepth", "1", "-delete"}})
	} else {
		spec.SuccessMessage = TmpOnlyCleanedMessage
	}
	spec.Steps = append(spec.Steps, Privileged(sudo, "find", "/tmp", "-mindepth", "1", "-delete"))
	return Sequence(spec, r)
}
