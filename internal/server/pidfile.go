package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// acquirePidFile records this process at path. It fails when the file
// names another live process; a stale file is replaced.
func acquirePidFile(path string) error {
	if pid, err := readPidFile(path); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("another restyle server is running (pid %d, %s)", pid, path)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func removePidFile(path string) {
	if pid, err := readPidFile(path); err == nil && pid == os.Getpid() {
		_ = os.Remove(path)
	}
}

// RunningPid returns the pid of a live server recorded at path, or 0.
func RunningPid(path string) int {
	pid, err := readPidFile(path)
	if err != nil || !processAlive(pid) {
		return 0
	}
	return pid
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid file contents: %w", err)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks existence without sending a real signal.
	return proc.Signal(syscall.Signal(0)) == nil
}
