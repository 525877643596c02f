// Package types defines the value types shared by the scaffold engine:
// the ScaffoldPath describing where an asset comes from and goes to, the
// Package contributed by the repository, the Variables snapshot threaded
// through rendering and the FS interface every disk access goes through.
package types
