// Command kickoffhub runs the KickOffHub API server, background import
// worker and one-shot import jobs.
package main

import (
	"fmt"
	"os"

	// Feature modules register themselves at init time. Order matters:
	// imports reads the football module's published services.
	_ "github.com/kickoffhub/kickoffhub/internal/modules/football"
	_ "github.com/kickoffhub/kickoffhub/internal/modules/imports"
	_ "github.com/kickoffhub/kickoffhub/internal/modules/social"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
