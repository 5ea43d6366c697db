package task

import (
	"context"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/upkeep/internal/command"
)

// DefaultMirrorMaxAge is how long a ranked mirror list stays fresh.
const DefaultMirrorMaxAge = 7 * 24 * time.Hour

// Mirror task messages.
const (
	MirrorFreshMessage   = "mirror list is up-to-date"
	MirrorUpdatedMessage = "mirror list updated"
	MirrorFailedMessage  = "mirror list update failed"
)

// MirrorSpec configures the mirror freshness task.
type MirrorSpec struct {
	// Path is the mirror list file.
	Path string
	// MaxAge is the freshness window; zero uses DefaultMirrorMaxAge.
	MaxAge time.Duration
	// Update rewrites the mirror list when it is stale.
	Update Step
	// Now returns the current time; nil uses time.Now.
	Now func() time.Time
}

// ReflectorStep returns the command that ranks mirrors and saves the result
// to path.
func ReflectorStep(sudo, path string) Step {
	return Privileged(sudo, "reflector",
		"--verbose",
		"--latest", "10",
		"--sort", "score",
		"--connection-timeout", "3",
		"--protocol", "https",
		"--save", path,
	)
}

// Mirror builds the task that refreshes the mirror list when it is older
// than the freshness window.
func Mirror(spec MirrorSpec, fs afero.Fs, r command.Runner) Task {
	const label = "Mirror"

	maxAge := spec.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMirrorMaxAge
	}
	now := spec.Now
	if now == nil {
		now = time.Now
	}

	return Task{
		Name:        "mirror",
		Label:       label,
		Phase:       Sequential,
		Description: "checking mirror list freshness...",
		Run: func(ctx context.Context) Outcome {
			if MirrorFresh(fs, spec.Path, maxAge, now()) {
				return Success(label, MirrorFreshMessage)
			}
			if spec.Update.Execute(ctx, r) {
				return Success(label, MirrorUpdatedMessage)
			}
			return Failure(label, MirrorFailedMessage)
		},
	}
}

// MirrorFresh reports whether the file at path was modified less than maxAge
// before now. A file that cannot be read, or whose modification time lies in
// the future, is stale.
func MirrorFresh(fs afero.Fs, path string, maxAge time.Duration, now time.Time) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	age := now.Sub(info.ModTime())
	if age < 0 {
		return false
	}
	return age < maxAge
}
