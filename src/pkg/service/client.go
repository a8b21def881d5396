package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gh-ovd/addin-manifestchk/src/pkg/models"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "service")

const (
	// DefaultEndpoint is the add-in checking service endpoint. The endpoint
	// is a hard contract with the remote API, not configurable per call;
	// only the whole client can be pointed elsewhere (e.g. for tests).
	DefaultEndpoint = "https://verificationservice.osi.office.net/ova/addincheckingagent.svc/api/addincheck"

	// ContentTypeXML is the only content type the service accepts.
	ContentTypeXML = "application/xml"
)

// ErrServiceUnreachable marks transport-level failures: the endpoint could
// not be reached at all. Non-2xx responses are NOT errors at this layer;
// they are data for the classifier.
var ErrServiceUnreachable = errors.New("validation service is unreachable")

// SubmitterInterface defines the single operation the core needs from the
// transport: send the manifest, get back whatever the service said.
type SubmitterInterface interface {
	Submit(ctx context.Context, manifestPath string) (*models.ServiceResponse, error)
}

// Config is the immutable per-client configuration, constructed once.
// A zero Timeout means no client-side timeout; callers needing bounded
// latency impose one here or via the context.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client submits manifests to the remote add-in checking service.
type Client struct {
	config     Config
	httpClient *http.Client
}

// Ensure Client implements SubmitterInterface
var _ SubmitterInterface = (*Client)(nil)

// NewClient creates a new service client.
func NewClient(config Config) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Submit streams the manifest file as the POST body, so arbitrarily large
// files are never buffered in memory. The service enforces its own size cap
// (256KB) and communicates violations via status code, not via this client.
// The file handle is released on every exit path.
func (c *Client) Submit(ctx context.Context, manifestPath string) (*models.ServiceResponse, error) {
	logger.WithField("manifest", manifestPath).WithField("endpoint", c.config.Endpoint).Info("Submit: starting...")

	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	// http.Client.Do closes the request body; this close covers the paths
	// where the request is never sent. Double close on *os.File is harmless.
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, f)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeXML)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrServiceUnreachable, err)
	}

	logger.WithField("statusCode", resp.StatusCode).Info("Submit: done.")
	return &models.ServiceResponse{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
