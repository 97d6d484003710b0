package distance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"roadtrip-itinerary-service/internal/platform/httpclient"
	"roadtrip-itinerary-service/internal/ports"
)

func (o *ORSProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// asNoRoute tags non-retryable client errors as unroutable so callers can
// distinguish "these points do not connect" from provider outages.
func asNoRoute(err error) error {
	var se *httpclient.StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && !se.Retryable() {
		return fmt.Errorf("%w: %v", ports.ErrNoRoute, err)
	}
	return err
}
