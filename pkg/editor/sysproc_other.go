//go:build !linux

package editor

import "syscall"

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}
