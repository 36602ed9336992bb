package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"dictee/internal/logger"
	"dictee/internal/models"
)

// ErrCatalogUnavailable means no catalog could be read for a location
var ErrCatalogUnavailable = errors.New("word catalog unavailable")

const (
	manifestFile = "manifest.json"
	wordListFile = "words_of_week.txt"
)

// Loader reads word catalogs from a Fetcher
type Loader struct {
	fetcher Fetcher
	log     *logger.Logger
}

// NewLoader creates a catalog loader
func NewLoader(fetcher Fetcher, log *logger.Logger) *Loader {
	return &Loader{fetcher: fetcher, log: log}
}

// Load reads the catalog at location. Spreadsheet files (.xlsx, .csv) are
// read directly; any other location is treated as a directory holding a
// manifest.json, with words_of_week.txt as the fallback.
func (l *Loader) Load(ctx context.Context, location string) ([]models.Word, error) {
	switch strings.ToLower(path.Ext(location)) {
	case ".xlsx":
		return l.loadSpreadsheet(ctx, location, parseXLSX)
	case ".csv":
		return l.loadSpreadsheet(ctx, location, parseCSV)
	}

	manifestPath := path.Join(location, manifestFile)
	data, err := l.fetcher.Fetch(ctx, manifestPath)
	if err == nil {
		words, perr := parseManifest(data)
		if perr == nil {
			return words, nil
		}
		l.log.Warn("invalid manifest, falling back to word list", "path", manifestPath, "error", perr)
	} else if !errors.Is(err, ErrNotFound) {
		l.log.Warn("manifest fetch failed, falling back to word list", "path", manifestPath, "error", err)
	}

	listPath := path.Join(location, wordListFile)
	data, err = l.fetcher.Fetch(ctx, listPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return parseWordList(data), nil
}

func (l *Loader) loadSpreadsheet(ctx context.Context, location string, parse func([]byte) ([]string, error)) ([]models.Word, error) {
	data, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	texts, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, location, err)
	}
	return wordsFromTexts(texts), nil
}

func parseManifest(data []byte) ([]models.Word, error) {
	var manifest models.WordManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	words := make([]models.Word, 0, len(manifest.Words))
	for _, w := range manifest.Words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}
		if w.ID == "" {
			w.ID = w.Text
		}
		words = append(words, w)
	}
	return words, nil
}

func parseWordList(data []byte) []models.Word {
	return wordsFromTexts(strings.Split(string(data), "\n"))
}

// parseXLSX returns the first column of the first sheet, header excluded
func parseXLSX(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return firstColumn(rows), nil
}

// parseCSV returns the first column of a published spreadsheet, header excluded
func parseCSV(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return firstColumn(rows), nil
}

func firstColumn(rows [][]string) []string {
	if len(rows) <= 1 {
		return nil
	}
	texts := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) > 0 {
			texts = append(texts, row[0])
		}
	}
	return texts
}

// wordsFromTexts trims, drops empty lines and deduplicates by text keeping
// the first occurrence. The text doubles as the identifier.
func wordsFromTexts(texts []string) []models.Word {
	seen := make(map[string]bool, len(texts))
	words := make([]models.Word, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(strings.TrimPrefix(t, "\ufeff"))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		words = append(words, models.Word{ID: t, Text: t})
	}
	return words
}
