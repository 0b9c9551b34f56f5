package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Store is what the backup service needs from the card store.
type Store interface {
	Lister
	Replacer
}

// Service runs export and import against a store through the file-save
// and file-read collaborators.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock sets the time source used for exportedAt and file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result describes a finished export or import.
type Result struct {
	Name  string
	Cards int
	Bytes int
}

// Export snapshots the store and hands the document to saver.
func (s *Service) Export(ctx context.Context, saver Saver) (Result, error) {
	now := s.now()
	doc, err := Export(ctx, s.store, now)
	if err != nil {
		return Result{}, err
	}
	data, err := Marshal(doc)
	if err != nil {
		return Result{}, err
	}
	name := FileName(now)
	if err := saver.Save(ctx, name, data); err != nil {
		return Result{}, fmt.Errorf("saving backup: %w", err)
	}
	s.logger.Info("backup exported", "file", name, "cards", len(doc.Cards), "bytes", len(data))
	return Result{Name: name, Cards: len(doc.Cards), Bytes: len(data)}, nil
}

// Import reads a document from reader and replaces the store content with
// it. A read failure is reported as ErrImportFailed.
func (s *Service) Import(ctx context.Context, reader Reader) (Result, error) {
	data, err := reader.Read(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", types.ErrImportFailed, err)
	}
	n, err := Import(ctx, s.store, data)
	if err != nil {
		s.logger.Warn("backup import rejected", "error", err)
		return Result{}, err
	}
	s.logger.Info("backup imported", "cards", n, "bytes", len(data))
	return Result{Cards: n, Bytes: len(data)}, nil
}
