package assets

import (
	"fmt"
	"io"
)

// ListingLimit is the largest group printed file by file.
const ListingLimit = 10

// WriteListing prints the files to upload grouped by type.
func WriteListing(w io.Writer, groups Groups) {
	fmt.Fprintln(w, "Files to upload:")
	for _, g := range groups {
		if len(g.Files) == 0 {
			continue
		}
		if len(g.Files) > ListingLimit {
			fmt.Fprintf(w, "  %s: %d (hidden)\n", g.Type, len(g.Files))
		} else {
			fmt.Fprintf(w, "  %s: %d\n", g.Type, len(g.Files))
			for _, f := range g.Files {
				fmt.Fprintf(w, "    %s\n", f)
			}
		}
		if g.Type == Unknown {
			fmt.Fprintln(w, "  ...to be ignored because their asset type is unknown")
		}
	}
}
