//go:build windows

package procwatch

import (
	"os"

	"golang.org/x/sys/windows"
)

// processIsAlive checks whether proc is still running by opening a limited
// handle and reading its exit code; STILL_ACTIVE means it hasn't exited.
func processIsAlive(proc *os.Process) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(proc.Pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false
	}
	return exitCode == 259 // STILL_ACTIVE
}
