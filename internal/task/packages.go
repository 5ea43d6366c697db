package task

import (
	"context"

	"github.com/Iron-Ham/upkeep/internal/command"
)

// Packages task messages.
const (
	PackagesUpdatedMessage   = "packages updated"
	PackagesRefreshedMessage = "packages updated after key refresh"
	PackagesFailedMessage    = "package update and key refresh failed"
)

// PackagesSpec configures the system upgrade task.
type PackagesSpec struct {
	// Update upgrades all packages.
	Update Step
	// Refresh re-fetches the signing keys after a failed upgrade.
	Refresh Step
}

// Packages builds the task that upgrades the system. A failed upgrade is
// retried once after refreshing the package signing keys; an expired key is
// the usual reason an otherwise healthy upgrade fails.
func Packages(spec PackagesSpec, r command.Runner) Task {
	const label = "Packages"

	return Task{
		Name:        "packages",
		Label:       label,
		Phase:       Sequential,
		Description: "updating packages...",
		Run: func(ctx context.Context) Outcome {
			if spec.Update.Execute(ctx, r) {
				return Success(label, PackagesUpdatedMessage)
			}
			if spec.Refresh.Execute(ctx, r) && spec.Update.Execute(ctx, r) {
				return Success(label, PackagesRefreshedMessage)
			}
			return Failure(label, PackagesFailedMessage)
		},
	}
}
