// Command grantnet runs analyses, network builds, pathway queries and
// recommendations from the command line against Postgres or a YAML fixture.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
