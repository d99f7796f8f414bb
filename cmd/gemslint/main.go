// Command gemslint composes and inspects the shared lint configuration.
package main

import (
	"os"

	"github.com/jokarl/gemslint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
