// Command chartctl renders and inspects metric charts offline, without the
// HTTP service. Data comes from JSON files or the synthetic mock generator.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
