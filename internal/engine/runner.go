package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"ripweb/internal/app"
	"ripweb/internal/domain"
	"ripweb/internal/events"
)

const (
	// progressEvery batches progress events to every Nth output line so a
	// chatty subprocess doesn't flood the bus.
	progressEvery = 10
	// tailLines is how many trailing lines each progress event carries.
	tailLines = 5
)

// Runner executes a single task: it launches the rip subprocess, streams its
// merged output, and maps the process lifecycle onto bus events. Cleanup
// (registry removal, terminating a still-live process) runs on every exit
// path exactly once.
type Runner struct {
	app *app.Context
	reg *Registry

	// command builds the subprocess for a task. Tests swap in stub commands.
	command func(task *domain.DownloadTask) *exec.Cmd
}

func NewRunner(appc *app.Context, reg *Registry) *Runner {
	r := &Runner{app: appc, reg: reg}
	r.command = r.ripCommand
	return r
}

// ripCommand assembles: rip [--config-path <path>] -q <quality> url <url>
func (r *Runner) ripCommand(task *domain.DownloadTask) *exec.Cmd {
	cfg := r.app.Config.Rip

	args := []string{}
	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err == nil {
			args = append(args, "--config-path", cfg.ConfigPath)
		}
	}
	args = append(args, "-q", fmt.Sprintf("%d", task.Quality))
	args = append(args, "url", task.URL)

	return exec.Command(cfg.Binary, args...)
}

// Run processes one task to a terminal state. It never returns an error:
// every failure mode ends in a terminal bus event, and the owning worker
// loop must survive regardless.
func (r *Runner) Run(task *domain.DownloadTask) {
	r.reg.Add(task)
	r.app.Bus.Publish(events.Started(task))

	var (
		output []string
		cmd    *exec.Cmd
	)

	defer func() {
		r.reg.Remove(task.ID)

		// ProcessState is only set once Wait has seen the process exit; a
		// nil state with a live Process means we bailed early.
		if cmd != nil && cmd.Process != nil && cmd.ProcessState == nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
		}
		cmd = nil
	}()

	cmd = r.command(task)

	// Merge stdout and stderr into one line stream, like 2>&1.
	pr, pw := io.Pipe()
	defer pr.Close()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		r.finishError(task, fmt.Errorf("failed to start %s: %w", r.app.Config.Rip.Binary, err), output)
		return
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
		pw.Close()
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		output = append(output, line)
		if len(output)%progressEvery == 0 {
			r.app.Bus.Publish(events.Progress(task.ID, tail(output)))
		}
	}

	if err := scanner.Err(); err != nil {
		r.finishError(task, fmt.Errorf("reading rip output: %w", err), output)
		return
	}

	waitErr := <-waitCh

	switch waitErr.(type) {
	case nil:
		r.finish(task, domain.StatusCompleted, output)
	case *exec.ExitError:
		r.finish(task, domain.StatusFailed, output)
	default:
		r.finishError(task, fmt.Errorf("waiting for rip: %w", waitErr), output)
	}
}

func (r *Runner) finish(task *domain.DownloadTask, status domain.TaskStatus, output []string) {
	full := strings.Join(output, "\n")
	r.app.Bus.Publish(events.Completed(task, status, full))

	r.appendHistory(task, status, "")
	r.app.Logger.Info("Task %s finished: %s", task.ID, status)
}

func (r *Runner) finishError(task *domain.DownloadTask, runErr error, output []string) {
	// If nothing was captured the error text doubles as the output, so the
	// client always has something to display.
	full := strings.Join(output, "\n")
	if full == "" {
		full = runErr.Error()
	}

	r.app.Bus.Publish(events.Failure(task.ID, runErr.Error(), full))

	r.appendHistory(task, domain.StatusError, runErr.Error())
	r.app.Logger.Error("Task %s errored: %v", task.ID, runErr)
}

func (r *Runner) appendHistory(task *domain.DownloadTask, status domain.TaskStatus, errMsg string) {
	if r.app.History == nil {
		return
	}

	entry := &domain.HistoryEntry{
		TaskID:     task.ID,
		URL:        task.URL,
		Status:     status,
		Metadata:   task.Metadata,
		Error:      errMsg,
		FinishedAt: time.Now(),
	}
	if err := r.app.History.Append(entry); err != nil {
		r.app.Logger.Warn("Failed to record history for %s: %v", task.ID, err)
	}
}

// tail joins the last few output lines into the rolling progress payload.
func tail(lines []string) string {
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	return strings.Join(lines, "\n")
}
