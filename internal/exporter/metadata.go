package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// WriteMetadata records the provenance of a processing run alongside the
// dataset outputs.
func (e *Exporter) WriteMetadata(metadata domain.ProcessingMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	path := e.cfg.OutputPath(MetadataFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	e.logger.Info("run metadata written",
		slog.String("path", path),
		slog.Int("source_files", metadata.TotalFiles))
	return nil
}
