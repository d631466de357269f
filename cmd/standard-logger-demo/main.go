// Command standard-logger-demo walks through the standardlogger facade:
// severity methods, extra data, panels, rules, progress, and exception
// handling, under both the rich and the plain console renderer.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
