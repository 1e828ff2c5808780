package roblox

import (
	"context"
	"fmt"
	"net/http"
)

// UserInfo describes the logged-in account.
type UserInfo struct {
	UserID       int64  `json:"UserID"`
	Username     string `json:"UserName"`
	Robux        int64  `json:"RobuxBalance"`
	IsPremium    bool   `json:"IsPremium"`
	ThumbnailURL string `json:"ThumbnailUrl"`
}

// MyUserInfo fetches the account the session cookie belongs to.
func (c *Client) MyUserInfo(ctx context.Context) (*UserInfo, error) {
	var info *UserInfo
	_, err := c.Send(ctx, Request{
		Method: http.MethodGet,
		URL:    c.endpoints.WWW + "/mobileapi/userinfo",
		JSON:   true,
	}, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	if info == nil {
		return nil, ErrNotLoggedIn
	}
	return info, nil
}

// Role is a rank within a group.
type Role struct {
	Name string `json:"Name"`
	Rank int    `json:"Rank"`
}

// GroupOwner is the user owning a group.
type GroupOwner struct {
	Username string `json:"Name"`
	UserID   int64  `json:"Id"`
}

// GroupInfo is the public metadata of a group.
type GroupInfo struct {
	GroupID     int64       `json:"Id"`
	Name        string      `json:"Name"`
	Owner       *GroupOwner `json:"Owner"`
	EmblemURL   string      `json:"EmblemUrl"`
	Description string      `json:"Description"`
	Roles       []Role      `json:"Roles"`
}

// GroupInfo fetches metadata for groupID.
func (c *Client) GroupInfo(ctx context.Context, groupID int64) (*GroupInfo, error) {
	var info *GroupInfo
	_, err := c.Send(ctx, Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/groups/%d", c.endpoints.API, groupID),
		JSON:   true,
	}, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group %d (group probably does not exist): %w", groupID, err)
	}
	if info == nil {
		return nil, fmt.Errorf("failed to fetch group %d: empty response", groupID)
	}
	return info, nil
}

// Membership is one group the user belongs to.
type Membership struct {
	GroupID   int64  `json:"Id"`
	Name      string `json:"Name"`
	EmblemID  int64  `json:"EmblemId"`
	EmblemURL string `json:"EmblemUrl"`
	Rank      int    `json:"Rank"`
	Role      string `json:"Role"`
	IsPrimary bool   `json:"IsPrimary"`
}

// UserGroups lists the groups userID belongs to.
func (c *Client) UserGroups(ctx context.Context, userID int64) ([]Membership, error) {
	var groups []Membership
	_, err := c.Send(ctx, Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/users/%d/groups", c.endpoints.API, userID),
		JSON:   true,
	}, &groups)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups for user %d: %w", userID, err)
	}
	if groups == nil {
		return nil, fmt.Errorf("failed to fetch groups for user %d: empty response", userID)
	}
	return groups, nil
}
