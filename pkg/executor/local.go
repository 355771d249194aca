package executor

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Local provisioning is responsible for providing the execution environment
// on local machine via exec.Command.
// It runs command as current user.
type Local struct {
	// outputDir is where stdout/stderr files of executed commands are created.
	// Empty means the current working directory.
	outputDir string
}

// NewLocal returns a Local instance writing task output files into the
// given directory. Empty means the current working directory.
func NewLocal(outputDir string) Local {
	return Local{outputDir: outputDir}
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local Executor"
}

// Execute runs the command given as input.
// Returned TaskHandle is able to stop & monitor the provisioned process.
func (l Local) Execute(command string) (TaskHandle, error) {
	outputDir := l.outputDir
	if outputDir == "" {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "could not obtain working directory")
		}
		outputDir = pwd
	}

	stdoutFile, err := os.CreateTemp(outputDir, "stdout")
	if err != nil {
		return nil, errors.Wrapf(err, "could not create stdout file in %q", outputDir)
	}
	stderrFile, err := os.CreateTemp(outputDir, "stderr")
	if err != nil {
		return nil, errors.Wrapf(err, "could not create stderr file in %q", outputDir)
	}

	log.Debug("Starting ", command)

	cmd := exec.Command("sh", "-c", command)
	// Set additional Process Group ID for the process and its children
	// to have the ability to kill all of them on Stop.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile

	err = cmd.Start()
	if err != nil {
		return nil, errors.Wrapf(err, "could not start %q", command)
	}

	log.Debug("Started with pid ", cmd.Process.Pid)

	t := newLocalTaskHandle(cmd, stdoutFile, stderrFile)

	// Wait for the task in goroutine, collecting its exit code.
	go func() {
		cmd.Wait()

		var exitCode int
		waitStatus := cmd.ProcessState.Sys().(syscall.WaitStatus)
		// If process exited on its own, keep the exit status.
		// Otherwise record which signal caused the termination.
		if waitStatus.Exited() {
			exitCode = waitStatus.ExitStatus()
		} else {
			exitCode = -int(waitStatus.Signal())
		}

		log.Debug(
			"Ended ", command,
			" with output in file: ", stdoutFile.Name(),
			" with err output in file: ", stderrFile.Name(),
			" with status code: ", exitCode)

		t.complete(exitCode)
	}()

	return t, nil
}

// localTaskHandle implements TaskHandle interface.
type localTaskHandle struct {
	cmd        *exec.Cmd
	stdoutFile *os.File
	stderrFile *os.File

	mutex      sync.Mutex
	terminated chan struct{}
	exitCode   int
}

func newLocalTaskHandle(cmd *exec.Cmd, stdoutFile *os.File, stderrFile *os.File) *localTaskHandle {
	return &localTaskHandle{
		cmd:        cmd,
		stdoutFile: stdoutFile,
		stderrFile: stderrFile,
		terminated: make(chan struct{}),
	}
}

func (task *localTaskHandle) complete(exitCode int) {
	task.mutex.Lock()
	task.exitCode = exitCode
	task.mutex.Unlock()
	close(task.terminated)
}

func (task *localTaskHandle) isTerminated() bool {
	select {
	case <-task.terminated:
		return true
	default:
		return false
	}
}

// Stop terminates the local task.
func (task *localTaskHandle) Stop() error {
	if task.isTerminated() {
		return nil
	}

	// We signal the entire process group.
	// The kill syscall interprets a negated PID N as the process group N belongs to.
	log.Debug("Sending SIGTERM to PID ", -task.cmd.Process.Pid)
	err := syscall.Kill(-task.cmd.Process.Pid, syscall.SIGTERM)
	if err != nil {
		return errors.Wrap(err, "could not signal process group")
	}

	<-task.terminated
	return nil
}

// Status returns a state of the task.
func (task *localTaskHandle) Status() TaskState {
	if !task.isTerminated() {
		return RUNNING
	}
	return TERMINATED
}

// ExitCode returns a exitCode. If task is not terminated it returns an error.
func (task *localTaskHandle) ExitCode() (int, error) {
	if !task.isTerminated() {
		return 0, errors.New("task is not terminated")
	}

	task.mutex.Lock()
	defer task.mutex.Unlock()
	return task.exitCode, nil
}

// Wait blocks until the process terminates or the timeout elapses.
// Returns true when the process terminated before the timeout, otherwise false.
func (task *localTaskHandle) Wait(timeout time.Duration) bool {
	if task.isTerminated() {
		return true
	}

	if timeout == 0 {
		<-task.terminated
		return true
	}

	select {
	case <-task.terminated:
		return true
	case <-time.After(timeout):
		return false
	}
}

// StdoutFile returns a file handle to the task's stdout file.
func (task *localTaskHandle) StdoutFile() (*os.File, error) {
	if _, err := os.Stat(task.stdoutFile.Name()); err != nil {
		return nil, errors.Wrap(err, "stdout file is missing")
	}

	task.stdoutFile.Seek(0, 0)
	return task.stdoutFile, nil
}

// StderrFile returns a file handle to the task's stderr file.
func (task *localTaskHandle) StderrFile() (*os.File, error) {
	if _, err := os.Stat(task.stderrFile.Name()); err != nil {
		return nil, errors.Wrap(err, "stderr file is missing")
	}

	task.stderrFile.Seek(0, 0)
	return task.stderrFile, nil
}

// Clean closes the file to which stdout and stderr of executed command were written.
func (task *localTaskHandle) Clean() error {
	for _, file := range []*os.File{task.stdoutFile, task.stderrFile} {
		if err := file.Close(); err != nil {
			return errors.Wrapf(err, "could not close %q", file.Name())
		}
	}
	return nil
}

// EraseOutput removes task's stdout & stderr files.
func (task *localTaskHandle) EraseOutput() error {
	for _, file := range []*os.File{task.stdoutFile, task.stderrFile} {
		if err := os.Remove(file.Name()); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "could not remove %q", file.Name())
		}
	}
	return nil
}
