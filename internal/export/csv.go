package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sadopc/taskday/internal/domain"
)

var csvHeader = []string{"ID", "Task", "Day", "Team", "Start", "End", "Duration (s)", "Duration"}

func WriteCSV(out io.Writer, rows []domain.ExportRow) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := toRecord(r)
		row := []string{
			rec.ID,
			rec.Task,
			rec.Day,
			rec.Team,
			rec.StartTime,
			rec.EndTime,
			strconv.FormatInt(rec.DurationSec, 10),
			rec.Duration,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
