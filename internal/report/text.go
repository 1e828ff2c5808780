package report

import (
	"fmt"
	"io"
)

// WriteText prints a human readable summary of r.
func WriteText(w io.Writer, r *Report) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Run:      %s\n", r.Config.RunID)
	if r.Config.StartedAt != "" {
		fmt.Fprintf(w, "Started:  %s\n", r.Config.StartedAt)
	}
	if r.Config.User != "" {
		fmt.Fprintf(w, "User:     %s (%d)\n", r.Config.User, r.Config.UserID)
	}
	if r.Config.GroupID != 0 {
		fmt.Fprintf(w, "Group:    %d\n", r.Config.GroupID)
	}

	s := r.Summary()
	fmt.Fprintf(w, "\nTotal: %d  Uploaded: %d  Failed: %d\n", s.Total, s.Uploaded, s.Failed)

	for i, e := range r.Results {
		if e.Status == StatusUploaded {
			fmt.Fprintf(w, "\n[%d] %s: %s\n", i+1, e.File, e.AssetURI)
		} else {
			fmt.Fprintf(w, "\n[%d] %s: FAILED because: %s\n", i+1, e.File, e.Reason)
		}
		fmt.Fprintf(w, "  Name: %s\n", truncate(e.Name, 80))
		fmt.Fprintf(w, "  Attempts: %d (rate limit waits: %d)\n", e.Attempts, e.RateLimitWaits)
		if e.FilterRetried {
			fmt.Fprintln(w, "  Retried with fallback text")
		}
		if e.Width > 0 {
			fmt.Fprintf(w, "  Image: %s %dx%d\n", e.Format, e.Width, e.Height)
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
