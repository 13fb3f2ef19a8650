package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/galleryhub/display-relay/pkg/utils"
)

type ImageProber interface {
	Probe(ctx context.Context, url string) error
}

type httpImageProber struct {
	httpClient *http.Client
}

func newHTTPImageProber(timeout time.Duration) ImageProber {
	return &httpImageProber{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Probe fetches url and checks the Content-Type it is served with.
func (p *httpImageProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImageURLUnreachable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrImageURLUnreachable, err)
	}
	defer resp.Body.Close()

	return utils.ContentTypeAllowed(resp.Header.Get("Content-Type"))
}
