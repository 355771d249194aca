package executor

import (
	"os"
	"time"
)

// Executor is responsible for creating execution environment for given command.
// It returns a TaskHandle when the command started gracefully.
// The command is executed asynchronously; use TaskHandle.Wait for completion.
type Executor interface {
	// Execute executes command on underlying platform.
	Execute(command string) (TaskHandle, error)
	// Name returns user-friendly name of executor.
	Name() string
}

// TaskState is an enum presenting current task state.
type TaskState int

const (
	// RUNNING task state means that task is still running.
	RUNNING TaskState = iota
	// TERMINATED task state means that task completed or stopped.
	TERMINATED
)

// TaskHandle represents a process which can be waited for, stopped and monitored.
type TaskHandle interface {
	// Stop terminates the task.
	Stop() error
	// Status returns the current state of the task.
	Status() TaskState
	// ExitCode returns the exit code. If task is not terminated it returns an error.
	ExitCode() (int, error)
	// Wait blocks until the task completes or the timeout elapses.
	// Zero timeout means wait indefinitely.
	// It returns true when the task is terminated.
	Wait(timeout time.Duration) bool
	// StdoutFile returns a file handle to the task's stdout file.
	StdoutFile() (*os.File, error)
	// StderrFile returns a file handle to the task's stderr file.
	StderrFile() (*os.File, error)
	// Clean closes the task's stdout & stderr files.
	Clean() error
	// EraseOutput removes task's stdout & stderr files.
	EraseOutput() error
}
