package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/models"
)

// HTTPEngine fetches pages and probes links over plain net/http with a
// Chrome-like TLS fingerprint. It never retries.
type HTTPEngine struct {
	client       *http.Client
	probeClient  *http.Client
	userAgent    string
	maxBodyBytes int64
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection, so the
	// server must never be offered it.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine using the audit settings for the
// User-Agent and body cap. Timeouts come from the caller's context.
func NewHTTPEngine(cfg config.AuditConfig) *HTTPEngine {
	transport := &http.Transport{
		DialTLSContext:    dialTLSChrome,
		ForceAttemptHTTP2: false,
		Proxy:             http.ProxyFromEnvironment,
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultAudit().MaxBodyBytes
	}

	return &HTTPEngine{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		// Probes judge the first response only; a redirect is a live link.
		probeClient: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:    ua,
		maxBodyBytes: maxBody,
	}
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// Fetch performs the single page GET. Failures come back as
// *models.AuditError with one of the fetch error codes.
func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeInvalidInput, "build request", err)
	}

	httpReq.Header.Set("User-Agent", e.userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, "fetch "+req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.AuditError{
			Code:       models.ErrCodeFetchStatus,
			Message:    fmt.Sprintf("HTTP %d for %s", resp.StatusCode, req.URL),
			StatusCode: resp.StatusCode,
		}
	}

	// Read one byte past the cap so truncation can be detected.
	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes+1))
	if err != nil {
		return nil, classifyTransportError(ctx, "read body", err)
	}
	truncated := int64(len(body)) > e.maxBodyBytes
	if truncated {
		body = body[:e.maxBodyBytes]
	}

	return &FetchResult{
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Truncated:   truncated,
	}, nil
}

// Probe issues a HEAD for url. The status code is returned as-is; deciding
// what counts as broken is left to the caller. Transport failures come back
// as *models.AuditError with ErrCodeLinkCheck.
func (e *HTTPEngine) Probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, models.NewAuditError(models.ErrCodeLinkCheck, "build probe", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.probeClient.Do(req)
	if err != nil {
		return 0, models.NewAuditError(models.ErrCodeLinkCheck, "probe "+url, err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	return resp.StatusCode, nil
}

// classifyTransportError maps a client error to a fetch error code,
// separating timeouts from every other failure.
func classifyTransportError(ctx context.Context, what string, err error) *models.AuditError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.NewAuditError(models.ErrCodeFetchTimeout, what+" timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.NewAuditError(models.ErrCodeFetchTimeout, what+" timed out", err)
	}
	return models.NewAuditError(models.ErrCodeFetchFailed, what+" failed", err)
}

// IsHTMLContentType returns true if the content-type header looks like HTML.
func IsHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
