// Package main provides the entry point for the launcher CLI.
package main

import "quantlab/launcher/internal/cli"

func main() {
	cli.Execute()
}
