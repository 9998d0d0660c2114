//go:build amd64

package utils

// SetProcTitle is a no-op on amd64 builds.
func SetProcTitle(title string) {}
