package heartbeat

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

const discardLimit int64 = 128 * 1024

// URLHeartbeat pings a liveness URL (e.g. a dead man's switch) on every beat.
type URLHeartbeat struct {
	url    string
	client *http.Client
}

func NewURLHeartbeat(url string) *URLHeartbeat {
	return &URLHeartbeat{
		url:    url,
		client: cleanhttp.DefaultPooledClient(),
	}
}

func (b *URLHeartbeat) Beat(ctx context.Context, count uint64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer drainBody(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("heartbeat %s at %s: unexpected status %s", formatCount(count), b.url, resp.Status)
	}

	return nil
}

// drainBody reads at most discardLimit bytes so that the pooled connection
// can be reused, then closes the body.
func drainBody(body io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, body, discardLimit)
	_ = body.Close()
}
