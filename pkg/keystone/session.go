package keystone

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

type SessionOptions struct {
	CAFile   string
	Insecure bool
	Timeout  time.Duration
	Retries  int
}

// Session is an authenticated HTTP session. It is read-only once built.
type Session struct {
	auth   AuthPlugin
	client *retryablehttp.Client
}

func NewSession(auth AuthPlugin, opts SessionOptions) (*Session, error) {
	if auth == nil {
		return nil, fmt.Errorf("session requires an auth plugin")
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.Insecure,
	}
	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle %s: %w", opts.CAFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificate found in %s", opts.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = tlsConfig
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("configuring http2 transport: %w", err)
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Transport = transport
	client.HTTPClient.Timeout = opts.Timeout
	client.RetryMax = opts.Retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = leveledLogger{logger: zap.S().Named("http_session")}

	return &Session{auth: auth, client: client}, nil
}

// AuthType returns the type of the plugin the session authenticates with.
func (s *Session) AuthType() string {
	return s.auth.Type()
}

// Do sends a request through the session. The caller closes the response body.
func (s *Session) Do(ctx context.Context, method, url string, body []byte, headers http.Header) (*http.Response, error) {
	var payload any
	if body != nil {
		payload = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("building request %s %s: %w", method, url, err)
	}

	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	if err := s.auth.Apply(req.Request); err != nil {
		return nil, fmt.Errorf("authenticating request: %w", err)
	}

	return s.client.Do(req)
}
