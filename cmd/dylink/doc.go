// Package dylink provides the command-line interface for the dylink tool.
// It configures subcommands (check, targets, completion), parses flags, and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/dylink/dylink/cmd/dylink"
//	func main() { dylink.Execute() }
package dylink
