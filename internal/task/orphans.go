package task

import (
	"context"
	"strings"

	"github.com/Iron-Ham/upkeep/internal/command"
)

// Orphans task messages.
const (
	NoOrphansMessage     = "no orphaned packages found"
	OrphansRemovedPrefix = "orphaned packages removed: "
	OrphansFailedPrefix  = "orphaned package removal failed: "
)

// OrphansSpec configures the orphan removal task.
type OrphansSpec struct {
	// Query lists orphaned packages, one per line.
	Query Step
	// Remove uninstalls packages; the package names are appended to it.
	Remove Step
}

// Orphans builds the task that removes packages installed as dependencies
// that nothing depends on anymore.
func Orphans(spec OrphansSpec, r command.Runner) Task {
	const label = "Orphans"

	return Task{
		Name:        "orphans",
		Label:       label,
		Phase:       Parallel,
		Description: "removing orphaned packages...",
		Run: func(ctx context.Context) Outcome {
			listed := spec.Query.Capture(ctx, r)
			packages := strings.Fields(listed)
			if len(packages) == 0 {
				return Success(label, NoOrphansMessage)
			}
			if spec.Remove.With(packages...).Execute(ctx, r) {
				return Success(label, OrphansRemovedPrefix+listed)
			}
			return Failure(label, OrphansFailedPrefix+listed)
		},
	}
}
