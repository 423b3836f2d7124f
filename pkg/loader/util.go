package loader

import (
	"context"
	"encoding/json"
	"fmt"
)

func CacheKey(file InputFile) string {
	return file.ID + ":" + file.FilePath
}

// ReadJSON loads the file and decodes its JSON content into out.
// A missing file is reported with an error wrapping ErrNotFound.
func ReadJSON(ctx context.Context, file InputFile, out any) error {
	data, err := file.GetText(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", file.FilePath, err)
	}
	return nil
}
