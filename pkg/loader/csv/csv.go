package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/finkg/kgconv/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// CSVLoader loads tabular exports through a base loader and normalizes them.
type CSVLoader struct {
	loader loader.InputFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewCSVLoader creates a new CSVLoader with the given base loader.
func NewCSVLoader(loader loader.InputFileLoader) *CSVLoader {
	return &CSVLoader{
		loader: loader,
		cache:  make(map[string][]byte),
	}
}

// GetFileText retrieves and normalizes the CSV file content.
func (l *CSVLoader) GetFileText(ctx context.Context, file loader.InputFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		parsed, err := ParseCSV(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.FilePath, err)
		}

		l.cacheMu.Lock()
		l.cache[key] = parsed
		l.cacheMu.Unlock()

		return parsed, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// Column returns every value of the named column, one entry per data row,
// in file order. Rows shorter than the header yield an empty cell.
func (l *CSVLoader) Column(ctx context.Context, file loader.InputFile, column string) ([]string, error) {
	content, err := l.GetFileText(ctx, file)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", file.FilePath, err)
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%s: column %q not found", file.FilePath, column)
	}

	var values []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.FilePath, err)
		}
		if idx < len(record) {
			values = append(values, record[idx])
		} else {
			values = append(values, "")
		}
	}

	return values, nil
}

// ParseCSV parses CSV content and returns it as clean comma-separated text.
// It handles proper escaping/quoting and drops blank rows.
func ParseCSV(content []byte) ([]byte, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var output strings.Builder
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		isEmpty := true
		for _, field := range record {
			if strings.TrimSpace(field) != "" {
				isEmpty = false
				break
			}
		}
		if isEmpty {
			continue
		}

		if lineNum > 0 {
			output.WriteByte('\n')
		}

		for i, field := range record {
			if i > 0 {
				output.WriteByte(',')
			}
			if strings.ContainsAny(field, ",\n\"\r") {
				output.WriteString(quoteField(field))
			} else {
				output.WriteString(field)
			}
		}
		lineNum++
	}

	if output.Len() == 0 {
		return nil, fmt.Errorf("CSV file is empty or contains no valid data")
	}

	result := output.String()
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return []byte(result), nil
}

// quoteField properly quotes a CSV field that contains special characters.
func quoteField(field string) string {
	escaped := strings.ReplaceAll(field, "\"", "\"\"")
	return "\"" + escaped + "\""
}
