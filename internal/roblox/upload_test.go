package roblox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadServer(t *testing.T, status int, body string, check func(*http.Request, []byte)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if check != nil {
			check(r, data)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(NewSession(".ROBLOSECURITY=cookie;"), WithEndpoints(Endpoints{Data: srv.URL}))
}

func TestUploadDecal_Success(t *testing.T) {
	client := newUploadServer(t, http.StatusOK, `{"Success":true,"AssetId":111,"BackingAssetId":555}`, func(r *http.Request, body []byte) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/data/upload/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "13", q.Get("assetTypeId"))
		assert.Equal(t, "logo & co", q.Get("name"))
		assert.Equal(t, "a description", q.Get("description"))
		assert.Equal(t, "42", q.Get("groupId"))
		assert.Equal(t, UploadUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "*/*", r.Header.Get("Content-Type"))
		assert.Equal(t, ".ROBLOSECURITY=cookie;", r.Header.Get("Cookie"))
		assert.Equal(t, []byte("PNGDATA"), body)
	})

	decal, err := client.UploadDecal(context.Background(), DecalRequest{
		Image:       []byte("PNGDATA"),
		Name:        "logo & co",
		Description: "a description",
		GroupID:     42,
	})

	require.NoError(t, err)
	require.Equal(t, int64(111), decal.DecalID)
	require.Equal(t, int64(555), decal.ImageID)
	require.Equal(t, "rbxassetid://555", decal.AssetURI())
}

func TestUploadDecal_EmptyGroup(t *testing.T) {
	client := newUploadServer(t, http.StatusOK, `{"Success":true,"AssetId":1,"BackingAssetId":2}`, func(r *http.Request, _ []byte) {
		q := r.URL.Query()
		assert.True(t, q.Has("groupId"))
		assert.Empty(t, q.Get("groupId"))
	})

	_, err := client.UploadDecal(context.Background(), DecalRequest{Image: []byte("x"), Name: "n"})
	require.NoError(t, err)
}

func TestUploadDecal_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category Category
		message  string
	}{
		{
			name:     "rate limited",
			status:   http.StatusOK,
			body:     `{"Success":false,"Message":"You are uploading too much, please try again later."}`,
			category: RateLimited,
			message:  "Uploading too much",
		},
		{
			name:     "text filtered",
			status:   http.StatusOK,
			body:     `{"Success":false,"Message":"Inappropriate name or description."}`,
			category: ContentFiltered,
			message:  "Inappropriate Text",
		},
		{
			name:     "other message",
			status:   http.StatusOK,
			body:     `{"Success":false,"Message":"Insufficient permissions"}`,
			category: Unknown,
			message:  "Unknown error: Insufficient permissions",
		},
		{
			name:     "no message",
			status:   http.StatusOK,
			body:     `{"Success":false}`,
			category: Unknown,
			message:  "Unknown error: ",
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `not json`,
			category: Unknown,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `oops`,
			category: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newUploadServer(t, tt.status, tt.body, nil)

			decal, err := client.UploadDecal(context.Background(), DecalRequest{Image: []byte("x"), Name: "n"})

			require.Nil(t, decal)
			var ue *UploadError
			require.ErrorAs(t, err, &ue)
			require.Equal(t, tt.category, ue.Category)
			require.NotNil(t, ue.Raw)
			if tt.message != "" {
				require.Equal(t, tt.message, ue.Message)
			}
		})
	}
}

func TestUploadDecal_CustomClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Success":false,"Message":"Slow down"}`))
	}))
	defer srv.Close()
	client := NewClient(nil,
		WithEndpoints(Endpoints{Data: srv.URL}),
		WithClassifier(RuleClassifier(Rule{Contains: "slow down", Category: RateLimited})),
	)

	_, err := client.UploadDecal(context.Background(), DecalRequest{Image: []byte("x")})

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, RateLimited, ue.Category)
}
