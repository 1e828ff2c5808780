// Package wizard asks the user for whatever the command line left out before
// an upload starts.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/rbxupload/rbxupload/internal/assets"
	"github.com/rbxupload/rbxupload/internal/roblox"
	"github.com/rbxupload/rbxupload/internal/uploader"
)

// Account is the part of the Roblox client the wizard looks things up with.
type Account interface {
	MyUserInfo(ctx context.Context) (*roblox.UserInfo, error)
	UserGroups(ctx context.Context, userID int64) ([]roblox.Membership, error)
	GroupInfo(ctx context.Context, groupID int64) (*roblox.GroupInfo, error)
}

var (
	ErrNoLogin     = errors.New("no user details provided and not in interactive mode: cannot log in")
	ErrNoFiles     = errors.New("no files found: nothing to do")
	ErrNoGroup     = errors.New("invalid group id and could not match text with one of your groups")
	errFilesNeeded = errors.New("no files provided and files interactivity is skipped: nothing to do")
)

// Settings are the values given on the command line. Zero values are asked for.
type Settings struct {
	Patterns    []string
	Type        assets.Type
	GroupID     int64
	Name        string
	Description string
}

// Plan is everything an upload run needs.
type Plan struct {
	User   *roblox.UserInfo
	Group  *roblox.GroupInfo
	Type   assets.Type
	Groups assets.Groups
	// Files are the uploadable files; unknown ones are dropped.
	Files []string
	Job   uploader.Job
}

// Wizard runs the prompt flow.
type Wizard struct {
	Prompt Prompter
	Skips  Skips
	Out    io.Writer
	Err    io.Writer
}

// UseRegistry decides whether the cookie comes from the registry. When
// neither --registry nor ROBLOX_COOKIE is present the user is offered the
// registry.
func (w *Wizard) UseRegistry(registryFlag, haveEnvCookie bool) (bool, error) {
	if registryFlag {
		return true, nil
	}
	if haveEnvCookie {
		return false, nil
	}
	if w.Skips.Has(SkipUser) {
		return false, ErrNoLogin
	}
	answer, err := w.ask("Attempt to log in using the registry? [Y/n] ")
	if err != nil {
		return false, err
	}
	if a := strings.ToLower(answer); a != "" && a != "y" {
		return false, ErrCancelled
	}
	return true, nil
}

// Run completes s into a Plan, confirming with the user when anything was shown.
func (w *Wizard) Run(ctx context.Context, account Account, s Settings) (*Plan, error) {
	patterns := s.Patterns
	if len(patterns) == 0 {
		if w.Skips.Has(SkipFiles) {
			return nil, errFilesNeeded
		}
		answer, err := w.ask("What files do you want to upload? ")
		if err != nil {
			return nil, err
		}
		if answer != "" {
			patterns = []string{answer}
		}
	}

	files, err := assets.Expand(patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	plan := &Plan{Type: s.Type}
	if plan.Type == "" {
		plan.Type = assets.Auto
		if !w.Skips.Has(SkipType) {
			answer, err := w.ask("What kind asset do you want to upload? [AUTO/decal] ")
			if err != nil {
				return nil, err
			}
			if plan.Type, err = assets.ParseType(answer); err != nil {
				return nil, err
			}
		}
	}
	plan.Groups = assets.Classify(files, plan.Type)
	plan.Files = plan.Groups.Files(assets.Decal)

	shown := 0
	if !w.Skips.Has(SkipFilesVerify) {
		assets.WriteListing(w.Out, plan.Groups)
		shown++
	}

	plan.User, err = account.MyUserInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get logged in user info because: %w", err)
	}
	if !w.Skips.Has(SkipUserVerify) {
		fmt.Fprintf(w.Out, "You are logged in as %s (%d)\n", plan.User.Username, plan.User.UserID)
		shown++
	}

	groupID := s.GroupID
	if groupID == 0 && !w.Skips.Has(SkipGroup) {
		answer, err := w.ask("Upload to a group? [Enter a group id/name] ")
		if err != nil {
			return nil, err
		}
		if answer != "" {
			if groupID, err = w.resolveGroup(ctx, account, plan.User.UserID, answer); err != nil {
				return nil, err
			}
		}
	}
	if groupID != 0 {
		plan.Group, err = account.GroupInfo(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to get group info for %d because: %w", groupID, err)
		}
		if !w.Skips.Has(SkipGroupVerify) {
			fmt.Fprintf(w.Out, "You are uploading to %s (%d)\n", plan.Group.Name, plan.Group.GroupID)
			shown++
		}
	}

	if shown > 0 {
		answer, err := w.ask("Are these settings okay? [y/N] ")
		if err != nil {
			return nil, err
		}
		if strings.ToLower(answer) != "y" {
			return nil, ErrCancelled
		}
	}

	name := s.Name
	if name == "" && !w.Skips.Has(SkipName) {
		if name, err = w.ask("What should these assets be named? '$file' will be replaced with the file name. [default: $file] "); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = uploader.FilePlaceholder
	}

	description := s.Description
	if description == "" && !w.Skips.Has(SkipDescription) {
		if description, err = w.ask("What should the description be? '$file' will be replaced with the file name. [default: <empty>] "); err != nil {
			return nil, err
		}
	}

	plan.Job = uploader.Job{
		NameTemplate:        name,
		DescriptionTemplate: description,
		GroupID:             groupID,
	}
	return plan, nil
}

func (w *Wizard) resolveGroup(ctx context.Context, account Account, userID int64, answer string) (int64, error) {
	if id, err := strconv.ParseInt(answer, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	groups, err := account.UserGroups(ctx, userID)
	if err != nil {
		fmt.Fprintf(w.Err, "Could not fetch groups for user because: %v\n", err)
		return 0, ErrNoGroup
	}
	g, ok := MatchGroup(groups, answer)
	if !ok {
		return 0, ErrNoGroup
	}
	fmt.Fprintf(w.Out, "Using group id %d from group %s\n", g.GroupID, g.Name)
	return g.GroupID, nil
}

// MatchGroup finds the first group whose name matches query as a
// case-insensitive pattern. "primary" also matches the primary group.
func MatchGroup(groups []roblox.Membership, query string) (roblox.Membership, bool) {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}
	primary := strings.EqualFold(query, "primary")
	for _, g := range groups {
		if re.MatchString(g.Name) || (primary && g.IsPrimary) {
			return g, true
		}
	}
	return roblox.Membership{}, false
}

func (w *Wizard) ask(question string) (string, error) {
	answer, err := w.Prompt.Ask(question)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
