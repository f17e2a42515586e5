// Command extkit inspects and drives the extension points declared in an
// extkit configuration: it lists contributed factories, switches and
// toggles the active ones, and serves the same operations over HTTP.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
