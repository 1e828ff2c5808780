// Package report records the outcome of an upload run and exports it.
package report

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rbxupload/rbxupload/internal/assets"
	"github.com/rbxupload/rbxupload/internal/uploader"
)

const (
	StatusUploaded = "uploaded"
	StatusFailed   = "failed"
)

// Config describes the run.
type Config struct {
	RunID               string `yaml:"runid" json:"run_id"`
	StartedAt           string `yaml:"startedat" json:"started_at"`
	FinishedAt          string `yaml:"finishedat" json:"finished_at"`
	User                string `yaml:"user,omitempty" json:"user,omitempty"`
	UserID              int64  `yaml:"userid,omitempty" json:"user_id,omitempty"`
	GroupID             int64  `yaml:"groupid,omitempty" json:"group_id,omitempty"`
	NameTemplate        string `yaml:"nametemplate" json:"name_template"`
	DescriptionTemplate string `yaml:"descriptiontemplate" json:"description_template"`
}

// Entry is the result for one file.
type Entry struct {
	File           string `yaml:"file" json:"file"`
	Status         string `yaml:"status" json:"status"`
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description,omitempty" json:"description,omitempty"`
	DecalID        int64  `yaml:"decalid,omitempty" json:"decal_id,omitempty"`
	ImageID        int64  `yaml:"imageid,omitempty" json:"image_id,omitempty"`
	AssetURI       string `yaml:"asseturi,omitempty" json:"asset_uri,omitempty"`
	Reason         string `yaml:"reason,omitempty" json:"reason,omitempty"`
	Attempts       int    `yaml:"attempts" json:"attempts"`
	RateLimitWaits int    `yaml:"ratelimitwaits" json:"rate_limit_waits"`
	FilterRetried  bool   `yaml:"filterretried" json:"filter_retried"`
	Format         string `yaml:"format,omitempty" json:"format,omitempty"`
	Width          int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height         int    `yaml:"height,omitempty" json:"height,omitempty"`
}

// Report is a complete run.
type Report struct {
	Config  Config  `yaml:"config" json:"config"`
	Results []Entry `yaml:"results" json:"results"`
}

// NewConfig starts a run description with a fresh run id.
func NewConfig(started time.Time, job uploader.Job) Config {
	return Config{
		RunID:               uuid.NewString(),
		StartedAt:           started.UTC().Format(time.RFC3339),
		GroupID:             job.GroupID,
		NameTemplate:        job.NameTemplate,
		DescriptionTemplate: job.DescriptionTemplate,
	}
}

// Build turns outcomes into a report. Image dimensions are read from disk
// where the file is still readable.
func Build(cfg Config, finished time.Time, outcomes []uploader.Outcome) *Report {
	cfg.FinishedAt = finished.UTC().Format(time.RFC3339)
	r := &Report{Config: cfg, Results: make([]Entry, 0, len(outcomes))}
	for _, o := range outcomes {
		e := Entry{
			File:           o.File,
			Status:         StatusFailed,
			Name:           o.Name,
			Description:    o.Description,
			Reason:         o.Reason,
			Attempts:       o.Attempts,
			RateLimitWaits: o.RateLimitWaits,
			FilterRetried:  o.FilterRetried,
		}
		if o.OK() {
			e.Status = StatusUploaded
			e.DecalID = o.Decal.DecalID
			e.ImageID = o.Decal.ImageID
			e.AssetURI = o.Decal.AssetURI()
		}
		if info, err := assets.Inspect(o.File); err == nil {
			e.Format, e.Width, e.Height = info.Format, info.Width, info.Height
		} else {
			slog.Debug("Could not read image header", "file", o.File, "error", err)
		}
		r.Results = append(r.Results, e)
	}
	return r
}

// Summary counts uploaded and failed entries.
func (r *Report) Summary() uploader.Summary {
	s := uploader.Summary{Total: len(r.Results)}
	for _, e := range r.Results {
		if e.Status == StatusUploaded {
			s.Uploaded++
		} else {
			s.Failed++
		}
	}
	return s
}

// Format is a report file encoding.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported report format for %s (use .yaml, .json or .parquet)", path)
	}
}
