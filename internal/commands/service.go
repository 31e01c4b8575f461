// Package commands implements the operations exposed to callers: extracting
// records from manifest documents and exporting a category-filtered subset.
package commands

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/db"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/export"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/manifest"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

// Operation names, as recorded in the run history.
const (
	OpExtract    = "extract"
	OpExport     = "export"
	OpCategories = "categories"
)

// History records finished runs. Optional.
type History interface {
	SaveRun(ctx context.Context, r db.Run) error
}

// Service runs the manifest operations. Documents are processed one at a
// time, in the order given; nothing is shared between calls.
type Service struct {
	parser  *manifest.Parser
	history History
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a Service. history may be nil.
func NewService(parser *manifest.Parser, history History, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{parser: parser, history: history, logger: logger, now: time.Now}
}

// Extract parses every document and returns all records, in path order, as a
// JSON array.
func (s *Service) Extract(ctx context.Context, paths []string) (string, error) {
	var out string
	err := s.track(ctx, OpExtract, paths, "", func(log *zap.Logger) (int, error) {
		records, err := s.collect(log, paths)
		if err != nil {
			return 0, err
		}
		if records == nil {
			records = []models.Record{}
		}

		data, err := json.Marshal(records)
		if err != nil {
			return 0, apperr.Wrap(apperr.KindJSON, err)
		}
		out = string(data)
		return len(records), nil
	})
	return out, err
}

// BuildFilteredExport writes every record whose category is in categories
// to output, in production order, and returns the number of rows written.
// All documents are parsed before output is created, so a parse failure
// leaves no file behind.
func (s *Service) BuildFilteredExport(ctx context.Context, paths []string, categories []uint8, output string) (int, error) {
	var written int
	err := s.track(ctx, OpExport, paths, output, func(log *zap.Logger) (int, error) {
		records, err := s.collect(log, paths)
		if err != nil {
			return 0, err
		}

		keep := make(map[uint8]bool, len(categories))
		for _, c := range categories {
			keep[c] = true
		}

		written, err = writeFiltered(output, records, keep)
		if err != nil {
			return written, apperr.Wrap(apperr.KindIO, err)
		}
		log.Info("export written",
			zap.String("output", output),
			zap.Int("rows", written),
			zap.Int("filtered_out", len(records)-written))
		return written, nil
	})
	return written, err
}

// Categories lists the distinct category codes found in the documents, in
// first-seen order, with the last description seen for each code.
func (s *Service) Categories(ctx context.Context, paths []string) ([]models.Category, error) {
	var cats []models.Category
	err := s.track(ctx, OpCategories, paths, "", func(log *zap.Logger) (int, error) {
		records, err := s.collect(log, paths)
		if err != nil {
			return 0, err
		}
		cats = Summarize(records)
		return len(records), nil
	})
	return cats, err
}

// Summarize groups records by category code.
func Summarize(records []models.Record) []models.Category {
	index := make(map[uint8]int)
	var cats []models.Category
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(cats)
			index[r.Category] = i
			cats = append(cats, models.Category{ID: r.Category})
		}
		cats[i].Description = r.CategoryDescription
		cats[i].Count++
	}
	return cats
}

func writeFiltered(output string, records []models.Record, keep map[uint8]bool) (written int, err error) {
	w, err := export.Create(output)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := w.WriteHeader(); err != nil {
		return 0, err
	}
	for _, r := range records {
		if !keep[r.Category] {
			continue
		}
		if err := w.WriteRecord(r); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// collect parses paths in order and concatenates their records. The first
// failing document aborts the whole call.
func (s *Service) collect(log *zap.Logger, paths []string) ([]models.Record, error) {
	var all []models.Record
	for _, path := range paths {
		records, stats, err := s.parser.ParseFile(path)
		if err != nil {
			return nil, apperr.WithPath(path, err)
		}
		log.Debug("document parsed",
			zap.String("path", path),
			zap.Int("tables", stats.Tables),
			zap.Int("records", stats.Rows),
			zap.Int("skipped_rows", stats.Skipped),
			zap.Int("defaulted_fields", stats.Defaulted))
		if stats.Tables == 0 {
			log.Warn("no item list found", zap.String("path", path))
		}
		all = append(all, records...)
	}
	if len(all) == 0 {
		log.Warn("empty manifest: no records in any document")
	}
	return all, nil
}

// track validates paths, runs fn under a fresh run id, logs the outcome and
// records it in the history.
func (s *Service) track(ctx context.Context, op string, paths []string, output string, fn func(*zap.Logger) (int, error)) error {
	if len(paths) == 0 {
		return &apperr.Error{Kind: apperr.KindInvalidInput, Err: apperr.ErrNoPaths}
	}

	run := db.Run{
		ID:        uuid.NewString(),
		Operation: op,
		Paths:     paths,
		Output:    output,
		StartedAt: s.now(),
	}
	log := s.logger.With(zap.String("run_id", run.ID), zap.String("op", op))
	log.Info("run started", zap.Int("documents", len(paths)))

	count, err := fn(log)

	run.RecordCount = count
	run.FinishedAt = s.now()
	run.Status = db.StatusOK
	if err != nil {
		run.Status = db.StatusFailed
		run.ErrorKind = string(apperr.KindOf(err))
		run.ErrorMessage = err.Error()
		log.Error("run failed", zap.String("kind", run.ErrorKind), zap.Error(err))
	} else {
		log.Info("run finished", zap.Int("records", count), zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
	}

	if s.history != nil {
		if herr := s.history.SaveRun(ctx, run); herr != nil {
			log.Warn("failed to record run", zap.Error(herr))
		}
	}
	return err
}
