// Package uploader drives decal uploads, retrying each file according to how
// the upload endpoint rejected it.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/rbxupload/rbxupload/internal/roblox"
)

const (
	// DefaultRateLimitDelay is how long to wait after the endpoint reports too many uploads.
	DefaultRateLimitDelay = 35 * time.Second
	// DefaultFallbackName replaces a filtered name when no fallback name is configured.
	DefaultFallbackName = "Asset"
)

// API is the part of the Roblox client the uploader needs.
type API interface {
	UploadDecal(ctx context.Context, req roblox.DecalRequest) (*roblox.Decal, error)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options configures retry behaviour and output.
type Options struct {
	// FallbackName and FallbackDescription replace the asset text once after a
	// text filtering rejection. With both empty a filtering rejection is final.
	FallbackName        string
	FallbackDescription string

	RateLimitDelay time.Duration
	// MaxRateLimitRetries caps consecutive waits on rate limiting for one
	// file. Zero retries until the endpoint stops rate limiting.
	MaxRateLimitRetries int

	Sleep  Sleeper
	Stdout io.Writer
	Stderr io.Writer
}

// Uploader uploads files one state machine per file.
type Uploader struct {
	api  API
	opts Options

	mu sync.Mutex
}

// New creates an Uploader. Unset options take their defaults.
func New(api API, opts Options) *Uploader {
	if opts.RateLimitDelay <= 0 {
		opts.RateLimitDelay = DefaultRateLimitDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = SleepContext
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Uploader{api: api, opts: opts}
}

// State is a step of the per-file retry loop.
type State int

const (
	Attempting State = iota
	WaitingRateLimit
	RetryingWithFallback
	DoneSuccess
	DoneFailed
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case WaitingRateLimit:
		return "waiting_rate_limit"
	case RetryingWithFallback:
		return "retrying_with_fallback"
	case DoneSuccess:
		return "done_success"
	case DoneFailed:
		return "done_failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// File is an image read from disk.
type File struct {
	Path string
	Data []byte
}

// Outcome is the result of uploading one file.
type Outcome struct {
	File        string
	Name        string
	Description string
	Decal       *roblox.Decal
	// Reason is the failure text shown to the user; empty on success.
	Reason string
	// Err is the last error seen for a failed file.
	Err error

	Attempts       int
	RateLimitWaits int
	FilterRetried  bool
}

// OK reports whether the file was uploaded.
func (o Outcome) OK() bool {
	return o.Decal != nil
}

// UploadOne uploads file, retrying on rate limiting indefinitely (or up to
// MaxRateLimitRetries) and once with fallback text on a filtering rejection.
func (u *Uploader) UploadOne(ctx context.Context, file File, name, description string, groupID int64) Outcome {
	out := Outcome{File: file.Path}
	req := roblox.DecalRequest{
		Image:       file.Data,
		Name:        name,
		Description: description,
		GroupID:     groupID,
	}
	filteringRetried := u.opts.FallbackName == "" && u.opts.FallbackDescription == ""

	state := Attempting
	for {
		switch state {
		case Attempting:
			out.Attempts++
			slog.Debug("Uploading decal", "file", file.Path, "attempt", out.Attempts, "name", req.Name)
			decal, err := u.api.UploadDecal(ctx, req)
			if err == nil {
				out.Decal = decal
				state = DoneSuccess
				continue
			}
			out.Err = err
			ue := asUploadError(err)
			switch ue.Category {
			case roblox.RateLimited:
				if u.opts.MaxRateLimitRetries > 0 && out.RateLimitWaits >= u.opts.MaxRateLimitRetries {
					out.Reason = roblox.RateLimited.String()
					state = DoneFailed
				} else {
					state = WaitingRateLimit
				}
			case roblox.ContentFiltered:
				if filteringRetried {
					out.Reason = roblox.ContentFiltered.String()
					state = DoneFailed
				} else {
					state = RetryingWithFallback
				}
			default:
				out.Reason = ue.Message
				state = DoneFailed
			}

		case WaitingRateLimit:
			u.notice("%s: retrying in %s because: %s", file.Path, describeDelay(u.opts.RateLimitDelay), roblox.RateLimited)
			out.RateLimitWaits++
			if err := u.opts.Sleep(ctx, u.opts.RateLimitDelay); err != nil {
				out.Err = err
				out.Reason = err.Error()
				state = DoneFailed
				continue
			}
			state = Attempting

		case RetryingWithFallback:
			u.notice("%s: retrying because: %s", file.Path, roblox.ContentFiltered)
			filteringRetried = true
			out.FilterRetried = true
			req.Name = u.opts.FallbackName
			if req.Name == "" {
				req.Name = DefaultFallbackName
			}
			req.Description = u.opts.FallbackDescription
			state = Attempting

		case DoneSuccess:
			out.Name, out.Description, out.Err = req.Name, req.Description, nil
			u.print(u.opts.Stdout, "%s: %s", file.Path, out.Decal.AssetURI())
			return out

		case DoneFailed:
			out.Name, out.Description = req.Name, req.Description
			u.notice("%s: FAILED because: %s", file.Path, out.Reason)
			return out
		}
	}
}

// Fail records a file that failed before any upload attempt.
func (u *Uploader) Fail(path, reason string, err error) Outcome {
	u.notice("%s: FAILED because: %s", path, reason)
	return Outcome{File: path, Reason: reason, Err: err}
}

func (u *Uploader) notice(format string, args ...any) {
	u.print(u.opts.Stderr, format, args...)
}

func (u *Uploader) print(w io.Writer, format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(w, format+"\n", args...)
}

func asUploadError(err error) *roblox.UploadError {
	var ue *roblox.UploadError
	if errors.As(err, &ue) {
		return ue
	}
	return &roblox.UploadError{Category: roblox.Unknown, Message: err.Error(), Raw: err}
}

func describeDelay(d time.Duration) string {
	if d%time.Second == 0 {
		secs := int(d / time.Second)
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	return d.String()
}
