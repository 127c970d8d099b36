package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"squitterlog/internal/adsb"
	"squitterlog/internal/capture"
	"squitterlog/internal/export"
	"squitterlog/internal/publish"
	"squitterlog/internal/report"
	"squitterlog/internal/timing"
	"squitterlog/internal/track"
)

// cancelCheckLines is how often the line loop polls for cancellation
const cancelCheckLines = 4096

// SummaryPublisher receives the summary of every processed file
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, runID, file string, s report.Summary) error
	Close()
}

// Application runs the capture analysis over a set of files
type Application struct {
	config    Config
	logger    *logrus.Logger
	log       *logrus.Entry
	runID     string
	decoder   *adsb.Decoder
	publisher SummaryPublisher
	stdout    io.Writer
}

// NewApplication creates a new application instance
func NewApplication(config Config, logger *logrus.Logger, stdout io.Writer) *Application {
	runID := uuid.New().String()

	return &Application{
		config:  config,
		logger:  logger,
		log:     logger.WithField("run_id", runID),
		runID:   runID,
		decoder: adsb.NewDecoder(logger, config.Verbose),
		stdout:  stdout,
	}
}

// RunID returns the identifier attached to this run's logs and summaries
func (app *Application) RunID() string {
	return app.runID
}

// SetPublisher replaces the NATS publisher built from the configuration
func (app *Application) SetPublisher(p SummaryPublisher) {
	app.publisher = p
}

// Run processes every discovered capture file in order.
// A failing file is logged and skipped; only discovery or publisher setup abort the run.
func (app *Application) Run(ctx context.Context) error {
	app.log.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting capture analysis")

	files, err := capture.Discover(app.config.DataDir, app.config.Extension, app.config.Files)
	if err != nil {
		return fmt.Errorf("failed to discover capture files: %w", err)
	}

	if app.publisher == nil && app.config.NATSURL != "" {
		client, err := publish.New(app.config.NATSURL, app.config.NATSSubject)
		if err != nil {
			return fmt.Errorf("failed to initialize publisher: %w", err)
		}
		app.publisher = client
	}
	if app.publisher != nil {
		defer app.publisher.Close()
	}

	failed := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := app.processFile(ctx, path); err != nil {
			failed++
			app.log.WithError(err).WithField("file", path).Error("Failed to process capture file")
		}
	}

	app.log.WithFields(logrus.Fields{
		"files":  len(files),
		"failed": failed,
	}).Info("Capture analysis finished")

	return nil
}

// processFile aggregates one capture file and emits every configured output
func (app *Application) processFile(ctx context.Context, path string) error {
	reader, err := capture.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	agg := track.NewAggregator(app.decoder, app.logger, track.Options{
		TargetAircraft: app.config.Aircraft,
		Verbose:        app.config.Verbose,
	})

	for reader.Next() {
		agg.Ingest(reader.Line())
		if reader.Lines()%cancelCheckLines == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	if err := reader.Err(); err != nil {
		return err
	}

	all := agg.Aircraft()
	kept := track.FilterExtendedSquitter(all)
	summary := report.Build(all, kept)

	stats := agg.Stats()
	app.log.WithFields(logrus.Fields{
		"file":     path,
		"lines":    stats.Lines,
		"framed":   stats.Framed,
		"messages": stats.Messages,
		"filtered": stats.Filtered,
		"corrupt":  stats.CorruptSquitters,
		"aircraft": summary.Total,
		"retained": summary.Retained,
	}).Info("Processed capture file")

	fmt.Fprintf(app.stdout, "File: %s\n", path)
	if err := report.WriteTable(app.stdout, summary); err != nil {
		return fmt.Errorf("failed to write summary table: %w", err)
	}
	if app.config.Timing {
		if err := report.WriteTiming(app.stdout, kept); err != nil {
			return fmt.Errorf("failed to write timing table: %w", err)
		}
	}

	base := outputBase(path, app.config.Extension)

	if app.config.PDFDir != "" {
		out := filepath.Join(app.config.PDFDir, base+".pdf")
		if err := ensureDir(app.config.PDFDir); err != nil {
			return err
		}
		if err := report.SavePDF(summary, path, out); err != nil {
			return fmt.Errorf("failed to save PDF report: %w", err)
		}
		app.log.WithField("path", out).Info("Saved PDF report")
	}

	if app.config.SBSDir != "" {
		if err := app.exportBaseStation(kept, filepath.Join(app.config.SBSDir, base+".sbs")); err != nil {
			return err
		}
	}

	if app.config.PlotDir != "" {
		if err := app.savePlots(kept, base); err != nil {
			return err
		}
	}

	if app.publisher != nil {
		if err := app.publisher.PublishSummary(ctx, app.runID, path, summary); err != nil {
			return fmt.Errorf("failed to publish summary: %w", err)
		}
		app.log.WithField("file", path).Debug("Published summary")
	}

	return nil
}

func (app *Application) exportBaseStation(records []*track.Record, out string) error {
	if err := ensureDir(filepath.Dir(out)); err != nil {
		return err
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create BaseStation export: %w", err)
	}
	defer file.Close()

	writer := export.NewWriter(file, app.logger)
	lines := 0
	for _, rec := range records {
		n, err := writer.WriteAircraft(rec)
		if err != nil {
			return err
		}
		lines += n
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush BaseStation export: %w", err)
	}

	app.log.WithFields(logrus.Fields{
		"path":  out,
		"lines": lines,
	}).Info("Saved BaseStation export")
	return nil
}

func (app *Application) savePlots(records []*track.Record, base string) error {
	if err := ensureDir(app.config.PlotDir); err != nil {
		return err
	}

	saved := 0
	for _, rec := range records {
		for _, c := range track.Categories() {
			a := timing.AnalyzeCategory(rec.Timestamps(c), c)
			if a.Status != timing.StatusOK {
				continue
			}
			title := fmt.Sprintf("%s %s (%s)", rec.Address, c.Register(), c)
			out := filepath.Join(app.config.PlotDir, fmt.Sprintf("%s_%s_%s.png", base, rec.Address, c.Register()))
			if err := timing.SavePlot(a, title, out); err != nil {
				return fmt.Errorf("failed to save plot %s: %w", out, err)
			}
			saved++
		}
	}

	app.log.WithFields(logrus.Fields{
		"dir":   app.config.PlotDir,
		"plots": saved,
	}).Info("Saved interval histograms")
	return nil
}

// outputBase strips the directory, compression suffix and capture extension from path
func outputBase(path, ext string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".gz", ".zst"} {
		if strings.HasSuffix(strings.ToLower(base), suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	return strings.TrimSuffix(base, ext)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
