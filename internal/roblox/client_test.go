package roblox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func respond(status int, reason string, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, reason),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func tokenHeader(token string) http.Header {
	h := http.Header{}
	h.Set(TokenHeader, token)
	return h
}

// recorder captures each request the fake transport sees and answers from a
// scripted list of responses.
type recorder struct {
	mu        sync.Mutex
	tokens    []string
	hasToken  []bool
	bodies    []string
	responses []*http.Response
}

func (r *recorder) client(session *Session) *Client {
	return NewClient(session, WithHTTPClient(&http.Client{Transport: roundTripFunc(r.roundTrip)}))
}

func (r *recorder) roundTrip(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := req.Header[http.CanonicalHeaderKey(TokenHeader)]
	r.hasToken = append(r.hasToken, ok)
	r.tokens = append(r.tokens, req.Header.Get(TokenHeader))
	body := ""
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}
	r.bodies = append(r.bodies, body)
	idx := len(r.tokens) - 1
	if idx >= len(r.responses) {
		return nil, errors.New("unexpected request")
	}
	return r.responses[idx], nil
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

func TestSend_WithoutTokenHeaderNeverSendsOne(t *testing.T) {
	rec := &recorder{responses: []*http.Response{
		respond(200, "OK", nil, `{}`),
		respond(200, "OK", nil, `{}`),
		respond(200, "OK", nil, `{}`),
	}}
	session := NewSession("")
	client := rec.client(session)

	for i := 0; i < 3; i++ {
		_, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: "https://example.test/a"}, nil)
		require.NoError(t, err)
	}

	require.Equal(t, []bool{false, false, false}, rec.hasToken)
	require.Empty(t, session.Token())
}

func TestSend_CapturesTokenForLaterRequests(t *testing.T) {
	rec := &recorder{responses: []*http.Response{
		respond(200, "OK", tokenHeader("first"), `{}`),
		respond(200, "OK", nil, `{}`),
		respond(500, "Internal Server Error", tokenHeader("second"), ``),
		respond(200, "OK", nil, `{}`),
	}}
	session := NewSession("")
	client := rec.client(session)
	ctx := context.Background()

	_, err := client.Send(ctx, Request{Method: http.MethodGet, URL: "https://example.test/a"}, nil)
	require.NoError(t, err)
	_, err = client.Send(ctx, Request{Method: http.MethodGet, URL: "https://example.test/b"}, nil)
	require.NoError(t, err)
	_, err = client.Send(ctx, Request{Method: http.MethodGet, URL: "https://example.test/c"}, nil)
	require.Error(t, err)
	_, err = client.Send(ctx, Request{Method: http.MethodGet, URL: "https://example.test/d"}, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"", "first", "first", "second"}, rec.tokens)
	require.Equal(t, "second", session.Token())
}

func TestSend_TokenRejectionResendsOnce(t *testing.T) {
	for _, reason := range []string{"XSRF Token Validation Failed", "Token Validation Failed"} {
		t.Run(reason, func(t *testing.T) {
			rec := &recorder{responses: []*http.Response{
				respond(http.StatusForbidden, reason, tokenHeader("fresh"), ``),
				respond(200, "OK", nil, `{"ok":true}`),
			}}
			client := rec.client(NewSession(""))

			var out struct {
				OK bool `json:"ok"`
			}
			_, err := client.Send(context.Background(), Request{
				Method: http.MethodPost,
				URL:    "https://example.test/upload",
				Body:   []byte("payload"),
				JSON:   true,
			}, &out)

			require.NoError(t, err)
			require.True(t, out.OK)
			require.Equal(t, 2, rec.calls())
			require.Equal(t, []string{"", "fresh"}, rec.tokens)
			require.Equal(t, []string{"payload", "payload"}, rec.bodies)
		})
	}
}

func TestSend_SecondTokenRejectionPropagates(t *testing.T) {
	rec := &recorder{responses: []*http.Response{
		respond(http.StatusForbidden, "XSRF Token Validation Failed", tokenHeader("a"), ``),
		respond(http.StatusForbidden, "XSRF Token Validation Failed", tokenHeader("b"), ``),
		respond(200, "OK", nil, `{}`),
	}}
	session := NewSession("")
	client := rec.client(session)

	_, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: "https://example.test/a"}, nil)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.True(t, se.TokenRejected())
	require.Equal(t, 2, rec.calls())
	require.Equal(t, "b", session.Token())
}

func TestSend_PlainForbiddenIsNotRetried(t *testing.T) {
	rec := &recorder{responses: []*http.Response{
		respond(http.StatusForbidden, "Forbidden", nil, `denied`),
	}}
	client := rec.client(NewSession(""))

	_, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: "https://example.test/a"}, nil)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.False(t, se.TokenRejected())
	require.Equal(t, http.StatusForbidden, se.StatusCode)
	require.Equal(t, 1, rec.calls())
}

func TestSend_AttachesCookieAndUserAgent(t *testing.T) {
	var gotCookie, gotUA string
	client := NewClient(NewSession(".ROBLOSECURITY=abc;"), WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotCookie = r.Header.Get("Cookie")
			gotUA = r.Header.Get("User-Agent")
			return respond(200, "OK", nil, ``), nil
		}),
	}))

	_, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: "https://example.test/a", JSON: true}, nil)
	require.NoError(t, err)
	require.Equal(t, ".ROBLOSECURITY=abc;", gotCookie)
	require.Equal(t, DefaultUserAgent, gotUA)
}

func TestSend_DecodeError(t *testing.T) {
	rec := &recorder{responses: []*http.Response{
		respond(200, "OK", nil, `<html>login</html>`),
	}}
	client := rec.client(NewSession(""))

	var out map[string]any
	_, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: "https://example.test/a", JSON: true}, &out)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, 200, de.Status)
}

func TestSend_NetworkError(t *testing.T) {
	client := NewClient(nil, WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}))

	_, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: "https://example.test/a"}, nil)

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
}

func TestEncodeBody_RejectsStructWithoutJSON(t *testing.T) {
	_, err := encodeBody(Request{Body: struct{}{}})
	require.Error(t, err)
}
