// Package util provides generic slice, map, and string helpers shared by
// the orchestration packages.
package util
