package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/catalog/internal/config"
	"github.com/JonMunkholm/catalog/internal/logging"
)

// Defaults used when no configuration is supplied.
const (
	DefaultImportTimeout = 10 * time.Minute
	DefaultNotifyTimeout = 10 * time.Second
	DefaultMaxFileSize   = 20 << 20
)

// Service holds the catalog workflows: order placement, imports, search
// and the admin operations.
type Service struct {
	store    Store
	notifier Notifier
	limiter  *ImportLimiter

	importTimeout time.Duration
	notifyTimeout time.Duration
	maxFileSize   int64

	now func() time.Time
}

// NewService wires the workflows to a store and a notifier. A nil cfg uses
// the defaults; a nil notifier disables notifications.
func NewService(store Store, notifier Notifier, cfg *config.Config) *Service {
	s := &Service{
		store:         store,
		notifier:      notifier,
		limiter:       NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxImportWait),
		importTimeout: DefaultImportTimeout,
		notifyTimeout: DefaultNotifyTimeout,
		maxFileSize:   DefaultMaxFileSize,
		now:           time.Now,
	}
	if cfg != nil {
		s.limiter = NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)
		if cfg.Import.Timeout > 0 {
			s.importTimeout = cfg.Import.Timeout
		}
		if cfg.Notify.Timeout > 0 {
			s.notifyTimeout = cfg.Notify.Timeout
		}
		if cfg.Import.MaxFileSize > 0 {
			s.maxFileSize = cfg.Import.MaxFileSize
		}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	return s
}

// MaxFileSize is the largest import file accepted, in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ImportFile reads a CSV or XLSX file and reconciles its rows with the
// catalog. size is the declared upload size; pass -1 when unknown.
// The run is recorded in the import history on a best-effort basis.
func (s *Service) ImportFile(ctx context.Context, fileName string, r io.Reader, size int64) (*ImportReport, error) {
	log := logging.FromContext(ctx).With(originAttrs(ctx)...)

	if size > s.maxFileSize {
		return nil, fmt.Errorf("%s: %w", fileName, ErrFileTooLarge)
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	rows, err := ReadRows(fileName, r, s.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	report := s.ImportRows(ctx, rows, DefaultColumnAliases)
	if report.Interrupted != "" && ctx.Err() == context.DeadlineExceeded {
		report.Interrupted = "import timed out: " + report.Interrupted
	}

	log.Info("import finished",
		slog.String("import_id", report.ID.String()),
		slog.String("file", fileName),
		slog.Int("rows", len(rows)),
		slog.Int("success", report.SuccessCount),
		slog.Int("failed", report.FailureCount),
		slog.Int("skipped", report.SkippedCount),
		slog.Duration("duration", report.Duration),
	)

	// The request context may already be done; the history write should
	// still happen.
	recCtx, recCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer recCancel()
	if err := s.store.RecordImportRun(recCtx, NewImportRun(fileName, &report)); err != nil {
		log.Warn("record import run failed",
			slog.String("import_id", report.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return &report, nil
}

// ImportLimiterStatus reports import slot usage.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
