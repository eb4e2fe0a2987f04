package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

type YouTubeClient struct {
	apiKey    string
	searchURL string
	http      *http.Client
}

// NewYouTubeClient returns a client for the search.list endpoint at
// searchURL. A zero timeout leaves the http.Client default (none).
func NewYouTubeClient(apiKey, searchURL string, timeout time.Duration) *YouTubeClient {
	return &YouTubeClient{
		apiKey:    apiKey,
		searchURL: searchURL,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError is the "error" object YouTube embeds in a response body.
// Errors is kept loosely typed so provider fields pass through untouched.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []any  `json:"errors"`
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

// Search performs one search.list call. Every non-nil error is an
// *UpstreamError.
func (c *YouTubeClient) Search(ctx context.Context, query string, maxResults int) ([]VideoResult, error) {
	val := url.Values{}
	val.Set("key", c.apiKey)
	val.Set("q", query)
	val.Set("part", "snippet")
	val.Set("maxResults", strconv.Itoa(maxResults))
	val.Set("type", "video")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+val.Encode(), nil)
	if err != nil {
		return nil, internalError(c.redact(err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyDoError(c.redact(err))
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, transportError(resp, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("read youtube response: %w", err))
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, internalError(fmt.Errorf("decode youtube response: %w", err))
	}
	if env.Error != nil {
		return nil, semanticError(env.Error)
	}

	var page youtube.SearchListResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, internalError(fmt.Errorf("decode youtube response: %w", err))
	}

	return toVideoResults(page.Items), nil
}

// redact drops the query string, and with it the API key, from URL errors.
func (c *YouTubeClient) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = c.searchURL
	}
	return err
}

func toVideoResults(items []*youtube.SearchResult) []VideoResult {
	out := make([]VideoResult, 0, len(items))
	for _, it := range items {
		if it == nil || it.Id == nil || it.Id.VideoId == "" || it.Snippet == nil {
			continue
		}

		var thumb string
		if t := it.Snippet.Thumbnails; t != nil && t.Default != nil {
			thumb = t.Default.Url
		}

		out = append(out, VideoResult{
			VideoID:     it.Id.VideoId,
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			Thumbnail:   thumb,
			URL:         watchURLPrefix + it.Id.VideoId,
		})
	}
	return out
}

// transportError builds the error for a non-2xx response. cause comes from
// googleapi.CheckResponse; its Message is empty when the body carried no
// parseable error object.
func transportError(resp *http.Response, cause error) *UpstreamError {
	var msg string
	var gerr *googleapi.Error
	if errors.As(cause, &gerr) {
		msg = gerr.Message
	}
	if msg == "" {
		msg = statusText(resp)
	}
	return &UpstreamError{
		Kind:    KindUpstreamTransport,
		Status:  resp.StatusCode,
		Message: msg,
		Err:     cause,
	}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// classifyDoError separates "sent but nothing came back" from failures that
// happened before the request left the process.
func classifyDoError(err error) *UpstreamError {
	cause := err
	var uerr *url.Error
	if errors.As(err, &uerr) {
		cause = uerr.Err
	}

	var netErr net.Error
	switch {
	case errors.As(cause, &netErr),
		errors.Is(cause, io.EOF),
		errors.Is(cause, io.ErrUnexpectedEOF),
		errors.Is(cause, context.Canceled),
		errors.Is(cause, context.DeadlineExceeded):
		return networkError(err)
	default:
		return internalError(err)
	}
}
