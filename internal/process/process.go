package process

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/daylog/internal/constants"
)

var (
	processesFunc = ps.Processes
	getpidFunc    = os.Getpid
)

// ErrRunning is returned when another daylog process holds the store.
var ErrRunning = errors.New("another daylog process is running")

// isDaylog matches the executable name on every platform.
func isDaylog(executable string) bool {
	name := strings.TrimSuffix(strings.ToLower(executable), ".exe")
	return name == constants.AppName
}

// Others returns the pids of running daylog processes other than this one.
func Others() ([]int, error) {
	procs, err := processesFunc()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	self := getpidFunc()
	var pids []int
	for _, p := range procs {
		if p.Pid() == self || !isDaylog(p.Executable()) {
			continue
		}
		pids = append(pids, p.Pid())
	}
	return pids, nil
}

// EnsureExclusive returns ErrRunning if any other daylog process is alive.
// A failure to enumerate processes is not treated as a conflict.
func EnsureExclusive() error {
	pids, err := Others()
	if err != nil {
		return nil
	}
	if len(pids) > 0 {
		return fmt.Errorf("%w (pid %v); stop it first or pass --force", ErrRunning, pids)
	}
	return nil
}
