package social

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"social-publisher/domain/model"
	"social-publisher/domain/repository"
)

const graphAPIBaseURL = "https://graph.facebook.com/v19.0"

// Registry maps each platform to its publisher adapter.
type Registry map[model.Platform]repository.IPublisher

// LocalMediaResolver maps a public /media/ URL back to a file on disk so
// adapters can upload the bytes instead of handing the platform a URL it
// cannot reach.
type LocalMediaResolver interface {
	ResolveLocal(url string) (string, bool)
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// postForm sends an application/x-www-form-urlencoded POST and returns the
// status code with the raw body.
func postForm(ctx context.Context, client *http.Client, endpoint string, values url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(client, req)
}

func do(client *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
