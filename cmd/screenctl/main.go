// Command screenctl is the operator CLI: classify ad hoc facts, print rule
// tables and list stored records.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "screenctl:", err)
		os.Exit(1)
	}
}
