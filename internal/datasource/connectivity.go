package datasource

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"hdfhr-backend/internal/cache"
)

// HTTPChecker reads connectivity by hitting a known endpoint. Any HTTP
// response counts as online, even an error status: the network carried the
// request. Timeouts report an error and leave the verdict to the prober;
// only a failed connection is an explicit offline reading.
type HTTPChecker struct {
	endpoint string
	client   *http.Client
}

// NewHTTPChecker probes endpoint with client, or http.DefaultClient-like
// settings when client is nil. Request deadlines come from the caller's
// context.
func NewHTTPChecker(endpoint string, client *http.Client) *HTTPChecker {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPChecker{endpoint: endpoint, client: client}
}

// Check performs one HEAD request against the endpoint.
func (c *HTTPChecker) Check(ctx context.Context) (cache.Connectivity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return cache.Connectivity{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return cache.Connectivity{}, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return cache.Connectivity{}, err
		}
		// The dial itself failed: refused, unreachable or unresolvable.
		return cache.Connectivity{Connected: false, InternetReachable: false}, nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return cache.Connectivity{Connected: true, InternetReachable: true}, nil
}
