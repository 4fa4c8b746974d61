//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, so the
// browser's renderer and GPU helpers go down with it.
func KillProcessGroup(pid int) {
	// launcher.Kill runs afterwards and covers a failed signal.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
