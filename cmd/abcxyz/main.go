// Command abcxyz builds ABC/XYZ SKU classification reports from Ozon seller
// analytics, once from the command line or on demand over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
