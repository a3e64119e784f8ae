// Command joingraph analyzes SQL queries and MyBatis mapper files for
// table join relationships.
package main

import (
	"os"

	"github.com/leapstack-labs/joingraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
