package roblox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
)

const (
	// DecalAssetTypeID is the asset type the upload endpoint uses for decals.
	DecalAssetTypeID = 13
	// UploadUserAgent is the client identifier the upload endpoint expects.
	UploadUserAgent = "Roblox/WinInet"
)

// DecalRequest is one image upload.
type DecalRequest struct {
	Image       []byte
	Name        string
	Description string
	// GroupID uploads into a group when non-zero.
	GroupID int64
}

// Decal identifies an uploaded decal and the image asset backing it.
type Decal struct {
	DecalID int64
	ImageID int64
}

// AssetURI is the content URI for the backing image.
func (d Decal) AssetURI() string {
	return fmt.Sprintf("rbxassetid://%d", d.ImageID)
}

type uploadResponse struct {
	Success        bool   `json:"Success"`
	AssetID        int64  `json:"AssetId"`
	BackingAssetID int64  `json:"BackingAssetId"`
	Message        string `json:"Message"`
}

// UploadDecal uploads an image as a decal. Every failure is returned as an
// *UploadError classified by the client's Classifier.
func (c *Client) UploadDecal(ctx context.Context, req DecalRequest) (*Decal, error) {
	q := url.Values{}
	q.Set("assetTypeId", strconv.Itoa(DecalAssetTypeID))
	q.Set("name", req.Name)
	q.Set("description", req.Description)
	groupID := ""
	if req.GroupID != 0 {
		groupID = strconv.FormatInt(req.GroupID, 10)
	}
	q.Set("groupId", groupID)

	header := http.Header{}
	header.Set("Content-Type", "*/*")
	header.Set("User-Agent", UploadUserAgent)

	resp, err := c.Send(ctx, Request{
		Method: http.MethodPost,
		URL:    c.endpoints.Data + "/data/upload/json?" + q.Encode(),
		Header: header,
		Body:   req.Image,
	}, nil)
	if err != nil {
		return nil, &UploadError{Category: Unknown, Message: fmt.Sprintf("Unknown error: %v", err), Raw: err}
	}

	var data uploadResponse
	if err := sonic.Unmarshal(resp.Body, &data); err != nil {
		return nil, &UploadError{Category: Unknown, Message: fmt.Sprintf("Unknown error: %v", err), Raw: string(resp.Body)}
	}
	if !data.Success {
		return nil, c.uploadFailure(data)
	}
	return &Decal{DecalID: data.AssetID, ImageID: data.BackingAssetID}, nil
}

func (c *Client) uploadFailure(data uploadResponse) *UploadError {
	category := Unknown
	if data.Message != "" {
		category = c.classify(data.Message)
	}
	switch category {
	case RateLimited:
		return &UploadError{Category: RateLimited, Message: "Uploading too much", Raw: data}
	case ContentFiltered:
		return &UploadError{Category: ContentFiltered, Message: "Inappropriate Text", Raw: data}
	default:
		return &UploadError{Category: Unknown, Message: fmt.Sprintf("Unknown error: %s", data.Message), Raw: data}
	}
}
