// Command ikiframe inspects, decodes and replaces PlayStation iki video frames.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
