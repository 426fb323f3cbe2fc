package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/samgozman/fin-dashboard/archivist"
	"github.com/samgozman/fin-dashboard/internal/utils"
	"github.com/samgozman/fin-dashboard/refdata"
	"github.com/samgozman/fin-dashboard/snapshot"
)

const defaultTimeout = 2 * time.Minute

// Collector gathers the raw per-domain inputs of a snapshot.
type Collector interface {
	Collect(ctx context.Context) snapshot.Inputs
}

// SnapshotJob collects the dashboard data, builds a snapshot, saves it and reports a summary.
type SnapshotJob struct {
	collector Collector            // collector that will fetch the domain inputs
	reference *refdata.Reference   // constants and fallbacks stamped into every snapshot
	archivist *archivist.Archivist // archivist that will write the snapshot (optional)
	logger    *slog.Logger         // special logger for the job
	clock     func() time.Time     // snapshot time source
	out       io.Writer            // summary destination when printing is enabled
	options   *snapshotJobOptions  // job options
}

type snapshotJobOptions struct {
	themesKey    string        // top-level key of the themes list
	printSummary bool          // if true, will print the summary to out
	timeout      time.Duration // upper bound of a single run
}

// NewSnapshotJob creates a new SnapshotJob instance.
func NewSnapshotJob(collector Collector, reference *refdata.Reference) *SnapshotJob {
	return &SnapshotJob{
		collector: collector,
		reference: reference,
		logger:    slog.Default(),
		clock:     time.Now,
		out:       os.Stdout,
		options: &snapshotJobOptions{
			themesKey: snapshot.ThemesKeyStock,
			timeout:   defaultTimeout,
		},
	}
}

// WriteTo sets the archivist that will save every built snapshot.
// Without it the job only builds and summarizes (dry run).
func (j *SnapshotJob) WriteTo(a *archivist.Archivist) *SnapshotJob {
	j.archivist = a
	return j
}

// WithThemesKey selects the themes key variant (snapshot.ThemesKeyStock or snapshot.ThemesKeyKorea).
func (j *SnapshotJob) WithThemesKey(key string) *SnapshotJob {
	j.options.themesKey = key
	return j
}

// PrintSummary sets the flag that will print the summary lines to stdout after every run.
func (j *SnapshotJob) PrintSummary() *SnapshotJob {
	j.options.printSummary = true
	return j
}

// WithTimeout bounds a single run.
func (j *SnapshotJob) WithTimeout(timeout time.Duration) *SnapshotJob {
	j.options.timeout = timeout
	return j
}

// WithLogger sets the logger of the job.
func (j *SnapshotJob) WithLogger(logger *slog.Logger) *SnapshotJob {
	j.logger = logger
	return j
}

// Run executes the job once. A build or save failure is logged, reported to Sentry and returned.
func (j *SnapshotJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.options.timeout)
	defer cancel()

	// Sentry performance monitoring
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
		ctx = sentry.SetHubOnContext(ctx, hub)
	}

	runID := uuid.New().String()
	hub.Scope().SetTag("run_id", runID)
	logger := j.logger.With("run_id", runID)

	tx := sentry.StartTransaction(ctx, "Job.SnapshotJob.Run")
	tx.Op = "job-snapshot"

	defer func() {
		tx.Finish()
		hub.Flush(2 * time.Second)
	}()

	logger.Info("snapshot job started", "themes_key", j.options.themesKey)

	span := tx.StartChild("Collector.Collect")
	in := j.collector.Collect(span.Context())
	span.Finish()
	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "successful",
		Message:  fmt.Sprintf("Collect returned %d of %d domains", len(in), len(snapshot.Domains)),
		Level:    sentry.LevelInfo,
	}, nil)

	span = tx.StartChild("Builder.Build")
	builder := snapshot.NewBuilder(j.reference.Constants(j.options.themesKey), j.reference.FallbackPolicy()).
		WithClock(j.clock)
	s, err := builder.Build(in)
	span.Finish()
	if err != nil {
		logger.Error("[job-snapshot][Build]", "error", err, "stack", string(debug.Stack()))
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "builder",
			Message:  "Error building snapshot",
			Level:    sentry.LevelError,
		}, nil)
		utils.CaptureSentryException("jobSnapshotBuildError", hub, err)
		return err
	}
	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "successful",
		Message:  fmt.Sprintf("Build returned GICI %d/100", s.GICI.CurrentScore),
		Level:    sentry.LevelInfo,
	}, nil)

	path := ""
	if j.archivist != nil {
		path = j.archivist.Path()

		span = tx.StartChild("Archivist.Save")
		err = j.archivist.Save(span.Context(), s)
		span.Finish()
		if err != nil {
			logger.Error("[job-snapshot][Save]", "error", err, "path", path, "stack", string(debug.Stack()))
			hub.AddBreadcrumb(&sentry.Breadcrumb{
				Category: "archivist",
				Message:  "Error saving snapshot",
				Level:    sentry.LevelError,
			}, nil)
			utils.CaptureSentryException("jobSnapshotSaveError", hub, err)
			return err
		}
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "successful",
			Message:  fmt.Sprintf("Snapshot saved to %s", path),
			Level:    sentry.LevelInfo,
		}, nil)
	}

	summary := formatSummary(path, s)
	logger.Info("snapshot job finished",
		"path", path,
		"gici", s.GICI.CurrentScore,
		"change", s.GICI.Change,
		"last_updated", snapshot.Timestamp(s.LastUpdated),
	)
	if j.options.printSummary {
		_, _ = fmt.Fprintln(j.out, summary)
	}

	return nil
}

// Task returns the job function that will be executed by the scheduler.
func (j *SnapshotJob) Task() JobFunc {
	return func() {
		// failures are already logged and captured by Run
		_ = j.Run(context.Background())
	}
}

// JobFunc is a type for job function that will be executed by the scheduler.
type JobFunc func()
