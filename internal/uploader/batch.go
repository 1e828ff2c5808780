package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FilePlaceholder is replaced with a file's base name in name and description templates.
const FilePlaceholder = "$file"

// Job is the shared settings of a batch.
type Job struct {
	NameTemplate        string
	DescriptionTemplate string
	GroupID             int64
	// Concurrency is the number of files uploaded at once. Values below 2
	// upload strictly one file after another.
	Concurrency int
}

// ExpandTemplate substitutes the base name of path for every $file in tmpl.
func ExpandTemplate(tmpl, path string) string {
	return strings.ReplaceAll(tmpl, FilePlaceholder, filepath.Base(path))
}

// UploadAll uploads every path and returns one Outcome per path, in input
// order. A failed file never stops the rest of the batch.
func (u *Uploader) UploadAll(ctx context.Context, paths []string, job Job) []Outcome {
	results := make([]Outcome, len(paths))
	if job.Concurrency < 2 {
		for i, path := range paths {
			results[i] = u.uploadPath(ctx, path, job)
		}
		return results
	}

	slog.Info("Uploading concurrently", "files", len(paths), "concurrency", job.Concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, job.Concurrency)
	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release
			results[idx] = u.uploadPath(ctx, path, job)
		}(i, path)
	}
	wg.Wait()
	return results
}

func (u *Uploader) uploadPath(ctx context.Context, path string, job Job) Outcome {
	if err := ctx.Err(); err != nil {
		return u.Fail(path, err.Error(), err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return u.Fail(path, fmt.Sprintf("Cannot open file: %v", err), err)
	}
	name := ExpandTemplate(job.NameTemplate, path)
	description := ExpandTemplate(job.DescriptionTemplate, path)
	return u.UploadOne(ctx, File{Path: path, Data: data}, name, description, job.GroupID)
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total    int
	Uploaded int
	Failed   int
}

// Summarize tallies outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.OK() {
			s.Uploaded++
		} else {
			s.Failed++
		}
	}
	return s
}
