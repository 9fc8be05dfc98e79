// cmd/pgarchive/sysmem_other.go

//go:build !linux && !darwin && !windows

package main

import "errors"

// getTotalSystemMemory is not implemented on this platform
func getTotalSystemMemory() (uint64, error) {
	return 0, errors.New("system memory size unavailable")
}
