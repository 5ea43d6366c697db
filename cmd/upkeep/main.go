// Command upkeep runs routine maintenance on an Arch Linux workstation.
package main

import (
	"os"

	"github.com/Iron-Ham/upkeep/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
