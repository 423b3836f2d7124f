package loader

import (
	"context"
	"errors"
)

// ErrNotFound is returned by loaders when the requested file does not exist.
// Callers treat it as an optional input that contributes nothing.
var ErrNotFound = errors.New("input file not found")

type InputFileType string

const (
	InputFileTypeJSON InputFileType = "json"
	InputFileTypeCSV  InputFileType = "csv"
)

// InputFile represents one upstream artifact of the conversion pipeline:
// an ID mapping, an edge index, a global map or a tabular export.
//
// The actual file content is retrieved via the associated InputFileLoader.
type InputFile struct {
	ID       string
	FilePath string
	FileType InputFileType
	Loader   InputFileLoader
}

// NewInputFileParams defines the input parameters for creating a new
// InputFile.
type NewInputFileParams struct {
	ID       string
	FilePath string
	Loader   InputFileLoader
}

// NewJSONFile creates a new InputFile of type InputFileTypeJSON.
func NewJSONFile(params NewInputFileParams) InputFile {
	return InputFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: InputFileTypeJSON,
		Loader:   params.Loader,
	}
}

// NewCSVFile creates a new InputFile of type InputFileTypeCSV.
func NewCSVFile(params NewInputFileParams) InputFile {
	return InputFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: InputFileTypeCSV,
		Loader:   params.Loader,
	}
}

// GetText retrieves the raw content of the file using its Loader.
//
// Example:
//
//	data, err := file.GetText(ctx)
//	if errors.Is(err, loader.ErrNotFound) {
//		logger.Warn("File not found", "path", file.FilePath)
//	}
func (f *InputFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// InputFileLoader defines the interface for loading the contents of an
// InputFile. Implementations may load files from disk or object storage.
type InputFileLoader interface {
	GetFileText(ctx context.Context, file InputFile) ([]byte, error)
}
