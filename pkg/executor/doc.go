// Package executor runs a destination plan against disk.
//
// Packages run in the order they were added to the plan and, within a
// package, in plan order, which puts ReadConfig operations first. The
// variables a ReadConfig resolves are handed to every operation after it.
// The first error stops the run; files written before it stay on disk.
package executor
