// Command licitaciones extracts structured fields from bidding notices,
// checks eligibility and exports stored records.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
