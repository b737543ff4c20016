// Package export writes tracked time entries as CSV, JSON or YAML.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const noTeam = "No team"

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FormatFromPath picks the format from path's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// record is the flattened row shared by the JSON and YAML encoders.
type record struct {
	ID          string `json:"id" yaml:"id"`
	TaskID      string `json:"task_id" yaml:"task_id"`
	Task        string `json:"task" yaml:"task"`
	Day         string `json:"day" yaml:"day"`
	Team        string `json:"team" yaml:"team"`
	StartTime   string `json:"start_time" yaml:"start_time"`
	EndTime     string `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Running     bool   `json:"running,omitempty" yaml:"running,omitempty"`
	DurationSec int64  `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
}

func toRecord(r domain.ExportRow) record {
	rec := record{
		ID:        r.Entry.ID,
		TaskID:    r.Entry.TaskID,
		Task:      r.TaskTitle,
		Day:       r.TaskDay,
		Team:      r.TeamName,
		StartTime: r.Entry.StartAt.Local().Format(time.RFC3339),
		Running:   r.Entry.IsRunning(),
	}
	if rec.Team == "" {
		rec.Team = noTeam
	}
	if r.Entry.EndAt != nil {
		rec.EndTime = r.Entry.EndAt.Local().Format(time.RFC3339)
	}
	if r.Entry.DurationSeconds != nil {
		rec.DurationSec = *r.Entry.DurationSeconds
	}
	rec.Duration = timer.FormatClock(rec.DurationSec)
	return rec
}

// document is the top-level JSON/YAML export.
type document struct {
	ExportedAt   string   `json:"exported_at" yaml:"exported_at"`
	Count        int      `json:"count" yaml:"count"`
	TotalSeconds int64    `json:"total_seconds" yaml:"total_seconds"`
	Entries      []record `json:"entries" yaml:"entries"`
}

func newDocument(rows []domain.ExportRow, exportedAt time.Time) document {
	doc := document{
		ExportedAt: exportedAt.UTC().Format(time.RFC3339),
		Count:      len(rows),
	}
	for _, r := range rows {
		rec := toRecord(r)
		doc.TotalSeconds += rec.DurationSec
		doc.Entries = append(doc.Entries, rec)
	}
	return doc
}

// Write encodes rows to w in format.
func Write(w io.Writer, format Format, rows []domain.ExportRow, exportedAt time.Time) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows, exportedAt)
	case FormatYAML:
		return WriteYAML(w, rows, exportedAt)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// ToFile writes rows to path in format.
func ToFile(path string, format Format, rows []domain.ExportRow, exportedAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", format, err)
	}
	defer f.Close()

	if err := Write(f, format, rows, exportedAt); err != nil {
		return err
	}
	return f.Close()
}
