//go:build linux

package editor

import "syscall"

// sysProcAttr kills the editor if we die first.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}
}
