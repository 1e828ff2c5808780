package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// row is the flat parquet layout. Run metadata repeats on every row.
type row struct {
	RunID          string `parquet:"run_id"`
	StartedAt      string `parquet:"started_at"`
	FinishedAt     string `parquet:"finished_at"`
	User           string `parquet:"user"`
	UserID         int64  `parquet:"user_id"`
	GroupID        int64  `parquet:"group_id"`
	File           string `parquet:"file"`
	Status         string `parquet:"status"`
	Name           string `parquet:"name"`
	Description    string `parquet:"description"`
	DecalID        int64  `parquet:"decal_id"`
	ImageID        int64  `parquet:"image_id"`
	AssetURI       string `parquet:"asset_uri"`
	Reason         string `parquet:"reason"`
	Attempts       int64  `parquet:"attempts"`
	RateLimitWaits int64  `parquet:"rate_limit_waits"`
	FilterRetried  bool   `parquet:"filter_retried"`
	Format         string `parquet:"format"`
	Width          int64  `parquet:"width"`
	Height         int64  `parquet:"height"`
}

// Save writes r to path in the format implied by its extension.
func Save(path string, r *Report) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(r)
	case FormatJSON:
		data, err = sonic.ConfigStd.MarshalIndent(r, "", "  ")
	case FormatParquet:
		return saveParquet(path, r)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s report: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	slog.Debug("Saved report", "path", path, "format", format, "entries", len(r.Results))
	return nil
}

// Load reads a report written by Save.
func Load(path string) (*Report, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	if format == FormatParquet {
		return loadParquet(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var r Report
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	case FormatJSON:
		err = sonic.ConfigStd.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s report: %w", format, err)
	}
	return &r, nil
}

func saveParquet(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	rows := make([]row, 0, len(r.Results))
	c := r.Config
	for _, e := range r.Results {
		rows = append(rows, row{
			RunID:          c.RunID,
			StartedAt:      c.StartedAt,
			FinishedAt:     c.FinishedAt,
			User:           c.User,
			UserID:         c.UserID,
			GroupID:        c.GroupID,
			File:           e.File,
			Status:         e.Status,
			Name:           e.Name,
			Description:    e.Description,
			DecalID:        e.DecalID,
			ImageID:        e.ImageID,
			AssetURI:       e.AssetURI,
			Reason:         e.Reason,
			Attempts:       int64(e.Attempts),
			RateLimitWaits: int64(e.RateLimitWaits),
			FilterRetried:  e.FilterRetried,
			Format:         e.Format,
			Width:          int64(e.Width),
			Height:         int64(e.Height),
		})
	}

	writer := parquet.NewGenericWriter[row](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

func loadParquet(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[row](pf)
	defer reader.Close()

	r := &Report{}
	batch := make([]row, 128)
	for {
		n, err := reader.Read(batch)
		for _, x := range batch[:n] {
			if r.Config.RunID == "" {
				r.Config = Config{
					RunID:      x.RunID,
					StartedAt:  x.StartedAt,
					FinishedAt: x.FinishedAt,
					User:       x.User,
					UserID:     x.UserID,
					GroupID:    x.GroupID,
				}
			}
			r.Results = append(r.Results, Entry{
				File:           x.File,
				Status:         x.Status,
				Name:           x.Name,
				Description:    x.Description,
				DecalID:        x.DecalID,
				ImageID:        x.ImageID,
				AssetURI:       x.AssetURI,
				Reason:         x.Reason,
				Attempts:       int(x.Attempts),
				RateLimitWaits: int(x.RateLimitWaits),
				FilterRetried:  x.FilterRetried,
				Format:         x.Format,
				Width:          int(x.Width),
				Height:         int(x.Height),
			})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return r, nil
}
