package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/taskday/internal/domain"
)

func WriteJSON(w io.Writer, rows []domain.ExportRow, exportedAt time.Time) error {
	data, err := json.MarshalIndent(newDocument(rows, exportedAt), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
