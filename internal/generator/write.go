package generator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/origadmin/structconv/internal/model"
)

// Write stores files on disk. With dryRun set the files are printed to w instead,
// each preceded by a comment line naming its path.
func Write(files []model.GeneratedFile, dryRun bool, w io.Writer) error {
	for _, f := range files {
		if dryRun {
			if _, err := fmt.Fprintf(w, "// %s\n%s\n", f.Path, f.Content); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		slog.Info("wrote generated file", "path", f.Path, "bytes", len(f.Content))
	}
	return nil
}
