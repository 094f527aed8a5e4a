package jobs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/sirupsen/logrus"
)

var requiredColumns = []string{"Title", "Desc", "Type", "BodyPart", "Equipment"}

// ExerciseSink is where loaded templates go.
type ExerciseSink interface {
	UpsertByName(ctx context.Context, tmpl *models.ExerciseTemplate) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// LoadResult counts what a load did.
type LoadResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// ExerciseLoader imports the exercise catalog from a CSV export.
type ExerciseLoader struct {
	Store ExerciseSink
}

func NewExerciseLoader(store ExerciseSink) *ExerciseLoader {
	return &ExerciseLoader{Store: store}
}

// Load reads the CSV at path. When replace is set the catalog is emptied first.
func (l *ExerciseLoader) Load(ctx context.Context, path string, replace bool) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to open exercises file: %w", err)
	}
	defer f.Close()
	return l.LoadFrom(ctx, f, replace)
}

// LoadFrom imports rows from r. Rows with an unknown category or equipment, a missing
// name, or a name seen earlier in the file are skipped.
func (l *ExerciseLoader) LoadFrom(ctx context.Context, r io.Reader, replace bool) (LoadResult, error) {
	var res LoadResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return res, fmt.Errorf("failed to read exercises header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return res, err
	}

	if replace {
		deleted, err := l.Store.DeleteAll(ctx)
		if err != nil {
			return res, err
		}
		logrus.WithField("deleted", deleted).Info("Cleared exercise catalog")
	}

	seen := make(map[string]struct{})
	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("failed to read exercises line %d: %w", line, err)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		tmpl, reason := parseRow(record, cols)
		if reason == "" {
			if _, dup := seen[tmpl.Name]; dup {
				reason = "duplicate name"
			}
		}
		if reason != "" {
			logrus.WithFields(logrus.Fields{
				"line":   line,
				"reason": reason,
			}).Warn("Skipping exercise row")
			res.Skipped++
			continue
		}
		seen[tmpl.Name] = struct{}{}

		created, err := l.Store.UpsertByName(ctx, tmpl)
		if err != nil {
			return res, err
		}
		if created {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	logrus.WithFields(logrus.Fields{
		"inserted": res.Inserted,
		"updated":  res.Updated,
		"skipped":  res.Skipped,
	}).Info("Exercises loaded")
	return res, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("exercises file is missing column %q", name)
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (*models.ExerciseTemplate, string) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	tmpl := &models.ExerciseTemplate{
		Name:        field("Title"),
		Description: field("Desc"),
		Category:    field("Type"),
		BodyPart:    field("BodyPart"),
		Equipment:   field("Equipment"),
	}
	if tmpl.Name == "" {
		return nil, "missing title"
	}
	if _, ok := models.AllowedCategories[tmpl.Category]; !ok {
		return nil, "unknown category " + tmpl.Category
	}
	if _, ok := models.AllowedEquipment[tmpl.Equipment]; !ok {
		return nil, "unknown equipment " + tmpl.Equipment
	}
	return tmpl, ""
}
