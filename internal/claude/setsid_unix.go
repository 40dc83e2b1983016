//go:build !windows

package claude

import "syscall"

// sessionAttr detaches the CLI from our controlling terminal so a Ctrl-C in
// watch mode reaches forge first.
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
