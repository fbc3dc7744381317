// Package main is the entry point for the QueryForge CLI application.
// It provides admin workbench capabilities against a QueryForge backend.
package main

import (
	"queryforge/cli/cmd"
)

func main() {
	cmd.Execute()
}
