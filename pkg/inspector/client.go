package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	serviceErrs "github.com/kubev2v/node-inspector/pkg/errors"
	"github.com/kubev2v/node-inspector/pkg/keystone"
)

const apiVersionHeader = "X-OpenStack-Ironic-Inspector-API-Version"

// APIVersion is the microversion the client is pinned to.
type APIVersion struct {
	Major int
	Minor int
}

func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// DefaultAPIVersion is the version every request is sent with.
var DefaultAPIVersion = APIVersion{Major: 1, Minor: 0}

// Status is the point-in-time state of an introspection.
type Status struct {
	Finished bool    `json:"finished"`
	Error    *string `json:"error"`
}

type Client struct {
	session *keystone.Session
	version APIVersion
	baseURL string
}

func NewClient(session *keystone.Session, version APIVersion, baseURL string) *Client {
	return &Client{
		session: session,
		version: version,
		baseURL: baseURL,
	}
}

// URL returns the endpoint the client was built with.
func (c *Client) URL() string {
	return c.baseURL
}

func (c *Client) Version() APIVersion {
	return c.version
}

// Introspect starts introspection of a node.
// POST /v1/introspection/{id}
func (c *Client) Introspect(ctx context.Context, nodeID uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodPost, nodeID)
	if err != nil {
		return fmt.Errorf("starting introspection of node %s: %w", nodeID, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return fmt.Errorf("starting introspection of node %s: %w", nodeID, err)
	}
	return nil
}

// GetStatus returns the introspection status of a node.
// GET /v1/introspection/{id}
func (c *Client) GetStatus(ctx context.Context, nodeID uuid.UUID) (*Status, error) {
	resp, err := c.do(ctx, http.MethodGet, nodeID)
	if err != nil {
		return nil, fmt.Errorf("getting introspection status of node %s: %w", nodeID, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("getting introspection status of node %s: %w", nodeID, err)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding introspection status of node %s: %w", nodeID, err)
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method string, nodeID uuid.UUID) (*http.Response, error) {
	headers := http.Header{}
	headers.Set(apiVersionHeader, c.version.String())
	headers.Set("Accept", "application/json")

	url := fmt.Sprintf("%s/v1/introspection/%s", strings.TrimRight(c.baseURL, "/"), nodeID)
	return c.session.Do(ctx, method, url, nil, headers)
}

func checkResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return serviceErrs.NewInspectorClientError(resp.StatusCode, errorMessage(resp))
	default:
		return fmt.Errorf("inspection service returned %s", resp.Status)
	}
}

// errorMessage extracts {"error": {"message": "..."}} from the body, falling back to the status line.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && json.Unmarshal(data, &body) == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return resp.Status
}
