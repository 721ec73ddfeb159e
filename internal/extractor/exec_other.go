//go:build !unix

package extractor

import "os/exec"

// killProcessGroup is a no-op where process groups are unavailable;
// WaitDelay still bounds how long Run waits on inherited pipes.
func killProcessGroup(cmd *exec.Cmd) {}
