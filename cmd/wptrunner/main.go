// Command wptrunner runs WPT-style reference tests against the engine:
// every page under the given directory that declares a
// <link rel="match"> (or rel="mismatch") reference is rendered along
// with its reference, and the two display lists are compared.
//
// Usage:
//
//	wptrunner [-v] [-json] <directory>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/wren-browser/wren/reftest"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("wptrunner", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "print every test result as it runs")
	jsonOut := fs.Bool("json", false, "emit the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: wptrunner [-v] [-json] <directory>")
		fs.PrintDefaults()
		return 1
	}

	dir := fs.Arg(0)
	if _, err := os.Stat(dir); err != nil {
		fmt.Fprintf(os.Stderr, "wptrunner: %v\n", err)
		return 1
	}

	summary := reftest.NewRunner(dir, *verbose).RunDirectory(dir)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "wptrunner: encoding summary: %v\n", err)
			return 1
		}
	} else {
		reftest.PrintSummary(summary)
	}

	if summary.Failed > 0 || summary.Errors > 0 {
		return 1
	}
	return 0
}
