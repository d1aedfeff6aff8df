// Package ops executes single-shot package lifecycle operations on worker
// goroutines. Each run emits one immediate progress message and exactly one
// terminal signal; retry is the caller's decision.
package ops

import (
	"context"
	"fmt"
)

// Kind names one lifecycle operation.
type Kind string

const (
	KindInstall    Kind = "install"
	KindUninstall  Kind = "uninstall"
	KindUpdate     Kind = "update"
	KindUpdateAll  Kind = "update-all"
	KindInstallRef Kind = "install-ref"
	KindBatch      Kind = "batch-install"
)

// Client is the slice of the catalog client the runner drives.
type Client interface {
	Install(ctx context.Context, id string) bool
	Uninstall(ctx context.Context, id string) bool
	Update(ctx context.Context, id string) bool
	UpdateAll(ctx context.Context) bool
	InstallRef(ctx context.Context, path string) bool
}

// Runner dispatches operations to worker goroutines and reports back through
// callbacks. Callbacks are invoked via dispatch, which the application wires
// to fyne.Do so completion lands on the event thread.
type Runner struct {
	client   Client
	dispatch func(func())

	onProgress func(message string)
	onDone     func(success bool, kind Kind)
}

func NewRunner(client Client, dispatch func(func()),
	onProgress func(string), onDone func(bool, Kind)) *Runner {

	return &Runner{
		client:     client,
		dispatch:   dispatch,
		onProgress: onProgress,
		onDone:     onDone,
	}
}

// Run starts one operation. target is the application identifier, the
// .flatpakref path for KindInstallRef, and empty for KindUpdateAll. The
// catalog call happens synchronously on the spawned goroutine; the terminal
// signal fires exactly once.
func (r *Runner) Run(ctx context.Context, kind Kind, target string) {
	r.progress(progressMessage(kind, target))

	go func() {
		var success bool

		switch kind {
		case KindInstall:
			success = r.client.Install(ctx, target)
		case KindUninstall:
			success = r.client.Uninstall(ctx, target)
		case KindUpdate:
			success = r.client.Update(ctx, target)
		case KindUpdateAll:
			success = r.client.UpdateAll(ctx)
		case KindInstallRef:
			success = r.client.InstallRef(ctx, target)
		default:
			success = false
		}

		r.done(success, kind)
	}()
}

// RunBatch installs a list of identifiers sequentially on one worker,
// reporting per-item progress and a single terminal signal for the whole
// batch. The batch succeeds only if every install succeeded.
func (r *Runner) RunBatch(ctx context.Context, ids []string) {
	r.progress(fmt.Sprintf("Installing %d applications...", len(ids)))

	go func() {
		success := true
		for _, id := range ids {
			r.progress(fmt.Sprintf("Installing %s...", id))
			if !r.client.Install(ctx, id) {
				success = false
			}
		}
		r.done(success, KindBatch)
	}()
}

func (r *Runner) progress(message string) {
	if r.onProgress == nil {
		return
	}
	r.dispatch(func() { r.onProgress(message) })
}

func (r *Runner) done(success bool, kind Kind) {
	if r.onDone == nil {
		return
	}
	r.dispatch(func() { r.onDone(success, kind) })
}

func progressMessage(kind Kind, target string) string {
	switch kind {
	case KindInstall:
		return fmt.Sprintf("Installing %s...", target)
	case KindUninstall:
		return fmt.Sprintf("Uninstalling %s...", target)
	case KindUpdate:
		return fmt.Sprintf("Updating %s...", target)
	case KindUpdateAll:
		return "Updating all applications..."
	case KindInstallRef:
		return fmt.Sprintf("Installing from %s...", target)
	default:
		return fmt.Sprintf("Running %s...", kind)
	}
}
