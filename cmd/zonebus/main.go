// Command zonebus manages a zone catalogue and runs a zone watcher against
// a scripted observer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zonebus:", err)
		os.Exit(1)
	}
}
