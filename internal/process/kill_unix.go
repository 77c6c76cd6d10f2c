//go:build !windows

// Package process terminates the Chrome process tree left behind by a launcher.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group of pid, taking the
// renderer and GPU children down with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; the launcher's own Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
