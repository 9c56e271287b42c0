package audit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/engine"
	"github.com/use-agent/seoaudit/models"
)

const fixturePage = `<!DOCTYPE html>
<html>
<head>
	<title>Example</title>
	<meta name="Description" content="An example page">
	<meta name="viewport" content="width=device-width">
</head>
<body>
	<h1>One</h1>
	<h1>Two</h1>
	<h2>Sub</h2>
	<img src="a.png" alt="A">
	<img src="b.png" alt="">
	<img src="c.png">
	<a href="/about">About</a>
	<a href="mailto:team@example.com">Mail</a>
</body>
</html>`

// fakeFetcher returns a canned page or error without touching the network.
type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &engine.FetchResult{HTML: f.html, StatusCode: http.StatusOK, FinalURL: req.URL, ContentType: "text/html"}, nil
}

// fakeProber answers from a status table and records every probed URL.
type fakeProber struct {
	status map[string]int
	errs   map[string]error
	probed []string
}

func (p *fakeProber) Probe(ctx context.Context, url string) (int, error) {
	p.probed = append(p.probed, url)
	if err, ok := p.errs[url]; ok {
		return 0, err
	}
	if s, ok := p.status[url]; ok {
		return s, nil
	}
	return http.StatusOK, nil
}

func testConfig() config.AuditConfig {
	cfg := config.DefaultAudit()
	cfg.FetchTimeout = 2 * time.Second
	cfg.LinkTimeout = 500 * time.Millisecond
	return cfg
}

func TestRun_ExtractsSignals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, fixturePage)
	}))
	defer server.Close()

	rec := NewDefault(testConfig()).Run(context.Background(), server.URL)

	if rec.Degraded() {
		t.Fatalf("unexpected degraded record: %+v", rec.FetchError)
	}
	if rec.URL != server.URL {
		t.Errorf("URL = %q", rec.URL)
	}
	if rec.Title != "Example" {
		t.Errorf("Title = %q, want Example", rec.Title)
	}
	if rec.Description != "An example page" {
		t.Errorf("Description = %q", rec.Description)
	}
	if want := (models.Headings{2, 1, 0, 0, 0, 0}); rec.Headings != want {
		t.Errorf("Headings = %v, want %v", rec.Headings, want)
	}
	if !rec.MobileFriendly {
		t.Error("MobileFriendly = false, want true")
	}
	if rec.ImageTotal != 3 || rec.ImageMissingAlt != 1 {
		t.Errorf("images = %d/%d, want 3/1", rec.ImageTotal, rec.ImageMissingAlt)
	}
	if len(rec.BrokenLinks) != 0 {
		t.Errorf("BrokenLinks = %v, want none (only relative/mailto links)", rec.BrokenLinks)
	}
	if rec.BrokenLinks == nil {
		t.Error("BrokenLinks should be an empty slice, not nil")
	}
	if !strings.HasPrefix(rec.RawHTMLSnippet, "<!DOCTYPE html>") {
		t.Errorf("RawHTMLSnippet = %q", rec.RawHTMLSnippet)
	}
	if rec.PageSpeed <= 0 {
		t.Errorf("PageSpeed = %v, want > 0", rec.PageSpeed)
	}
}

func TestRun_MissingSignals(t *testing.T) {
	f := &fakeFetcher{html: `<html><body><p>bare</p></body></html>`}
	rec := New(f, &fakeProber{}, testConfig()).Run(context.Background(), "https://bare.test/")

	if rec.Title != models.Missing {
		t.Errorf("Title = %q, want %q", rec.Title, models.Missing)
	}
	if rec.Description != models.Missing {
		t.Errorf("Description = %q, want %q", rec.Description, models.Missing)
	}
	if rec.MobileFriendly {
		t.Error("MobileFriendly = true without a viewport tag")
	}
	if rec.Headings.Total() != 0 || rec.ImageTotal != 0 {
		t.Errorf("expected zero headings/images, got %v / %d", rec.Headings, rec.ImageTotal)
	}
}

func TestRun_ViewportToggle(t *testing.T) {
	without := `<html><head><title>x</title></head></html>`
	with := `<html><head><title>x</title><meta name="viewport" content="width=device-width"></head></html>`

	a := New(&fakeFetcher{html: without}, &fakeProber{}, testConfig())
	if a.Run(context.Background(), "https://x.test").MobileFriendly {
		t.Error("no viewport: MobileFriendly should be false")
	}
	a = New(&fakeFetcher{html: with}, &fakeProber{}, testConfig())
	if !a.Run(context.Background(), "https://x.test").MobileFriendly {
		t.Error("viewport present: MobileFriendly should be true")
	}
}

func TestRun_FetchFailureDegrades(t *testing.T) {
	netErr := models.NewAuditError(models.ErrCodeFetchFailed, "fetch failed", errors.New("connection refused"))
	prober := &fakeProber{}

	rec := New(&fakeFetcher{err: netErr}, prober, testConfig()).Run(context.Background(), "https://down.test/")

	if !rec.Degraded() {
		t.Fatal("expected degraded record")
	}
	if rec.FetchError.Code != models.ErrCodeFetchFailed {
		t.Errorf("FetchError.Code = %q", rec.FetchError.Code)
	}
	if !strings.Contains(rec.FetchError.Message, "connection refused") {
		t.Errorf("FetchError.Message = %q, want the raw reason", rec.FetchError.Message)
	}
	if rec.Title != models.Missing {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.BrokenLinks == nil || len(rec.BrokenLinks) != 0 {
		t.Errorf("BrokenLinks = %#v, want []", rec.BrokenLinks)
	}
	if len(prober.probed) != 0 {
		t.Errorf("no links should be probed after a failed fetch, got %v", prober.probed)
	}
	if rec.PageSpeed != 0 {
		t.Errorf("PageSpeed = %v, want 0 for a failed fetch", rec.PageSpeed)
	}
}

func TestRun_PageSpeedCoversFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		fmt.Fprint(w, `<title>Slow</title>`)
	}))
	defer server.Close()

	rec := NewDefault(testConfig()).Run(context.Background(), server.URL)
	if rec.PageSpeed < 0.1 || rec.PageSpeed > 2 {
		t.Errorf("PageSpeed = %v, want between 0.1s and the fetch timeout", rec.PageSpeed)
	}
}

func TestRun_FetchStatusAndTimeout(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	cfg := testConfig()
	cfg.FetchTimeout = 100 * time.Millisecond

	tests := []struct {
		name     string
		url      string
		wantCode string
	}{
		{"404", notFound.URL, models.ErrCodeFetchStatus},
		{"timeout", slow.URL, models.ErrCodeFetchTimeout},
	}

	a := NewDefault(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.Run(context.Background(), tt.url)
			if !rec.Degraded() {
				t.Fatal("expected degraded record")
			}
			if rec.FetchError.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", rec.FetchError.Code, tt.wantCode)
			}
		})
	}
}

func TestRun_InvalidURL(t *testing.T) {
	tests := []string{"", "   ", "example.com", "ftp://example.com/file", "http://", "://bad"}

	f := &fakeFetcher{html: "<title>never</title>"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			rec := New(f, &fakeProber{}, testConfig()).Run(context.Background(), input)
			if !rec.Degraded() || rec.FetchError.Code != models.ErrCodeInvalidInput {
				t.Errorf("Run(%q) FetchError = %+v, want INVALID_INPUT", input, rec.FetchError)
			}
		})
	}
}

func TestRun_BrokenLinkClassification(t *testing.T) {
	page := `
		<a href="https://ok.test/">ok</a>
		<a href="https://notfound.test/">404</a>
		<a href="/relative">rel</a>
		<a href="https://error.test/">5xx</a>
		<a href="https://redirect.test/">301</a>
		<a href="HTTP://timeout.test/">slow</a>
		<a href="javascript:void(0)">js</a>`

	prober := &fakeProber{
		status: map[string]int{
			"https://notfound.test/": http.StatusNotFound,
			"https://error.test/":    http.StatusBadGateway,
			"https://redirect.test/": http.StatusMovedPermanently,
		},
		errs: map[string]error{
			"HTTP://timeout.test/": models.NewAuditError(models.ErrCodeLinkCheck, "probe", context.DeadlineExceeded),
		},
	}

	rec := New(&fakeFetcher{html: page}, prober, testConfig()).Run(context.Background(), "https://site.test/")

	want := []string{"https://notfound.test/", "https://error.test/", "HTTP://timeout.test/"}
	if !reflect.DeepEqual(rec.BrokenLinks, want) {
		t.Errorf("BrokenLinks = %v, want %v", rec.BrokenLinks, want)
	}
	wantProbed := []string{"https://ok.test/", "https://notfound.test/", "https://error.test/", "https://redirect.test/", "HTTP://timeout.test/"}
	if !reflect.DeepEqual(prober.probed, wantProbed) {
		t.Errorf("probed = %v, want %v", prober.probed, wantProbed)
	}
}

func TestRun_BrokenLinkSampleCap(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 25; i++ {
		host := "good.test"
		if i > 20 {
			host = "failing.test"
		}
		fmt.Fprintf(&b, `<a href="https://%s/%d">link %d</a>`, host, i, i)
	}

	prober := &fakeProber{errs: map[string]error{}}
	for i := 21; i <= 25; i++ {
		prober.errs[fmt.Sprintf("https://failing.test/%d", i)] = errors.New("no such host")
	}

	rec := New(&fakeFetcher{html: b.String()}, prober, testConfig()).Run(context.Background(), "https://site.test/")

	if len(rec.BrokenLinks) != 0 {
		t.Errorf("BrokenLinks = %v, want none: anchors past the cap must not be probed", rec.BrokenLinks)
	}
	if len(prober.probed) != 20 {
		t.Errorf("probed %d links, want 20", len(prober.probed))
	}
	for _, u := range prober.probed {
		if strings.Contains(u, "failing.test") {
			t.Errorf("probed %s beyond the cap", u)
		}
	}
}

func TestRun_RelativeLinksUseSampleSlots(t *testing.T) {
	cfg := testConfig()
	cfg.MaxLinks = 2

	page := `<a href="/a">a</a><a href="/b">b</a><a href="https://late.test/">late</a>`
	prober := &fakeProber{errs: map[string]error{"https://late.test/": errors.New("down")}}

	rec := New(&fakeFetcher{html: page}, prober, cfg).Run(context.Background(), "https://site.test/")

	if len(prober.probed) != 0 || len(rec.BrokenLinks) != 0 {
		t.Errorf("probed = %v broken = %v, want neither", prober.probed, rec.BrokenLinks)
	}
}

func TestRun_ProbesRealServer(t *testing.T) {
	var target *httptest.Server
	target = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprintf(w, `<a href="%[1]s/live">live</a><a href="%[1]s/dead">dead</a>`, target.URL)
		case "/live":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer target.Close()

	rec := NewDefault(testConfig()).Run(context.Background(), target.URL+"/")

	want := []string{target.URL + "/dead"}
	if !reflect.DeepEqual(rec.BrokenLinks, want) {
		t.Errorf("BrokenLinks = %v, want %v", rec.BrokenLinks, want)
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 10, "abc"},
		{"", 5, ""},
		{"héllo wörld", 5, "héllo"},
		{"日本語テキスト", 3, "日本語"},
	}
	for _, tt := range tests {
		if got := snippet(tt.in, tt.n); got != tt.want {
			t.Errorf("snippet(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRun_SnippetBounded(t *testing.T) {
	cfg := testConfig()
	cfg.SnippetChars = 10

	rec := New(&fakeFetcher{html: fixturePage}, &fakeProber{}, cfg).Run(context.Background(), "https://x.test")
	if rec.RawHTMLSnippet != fixturePage[:10] {
		t.Errorf("RawHTMLSnippet = %q", rec.RawHTMLSnippet)
	}
}

func TestRun_HangingLinkBoundedByLinkTimeout(t *testing.T) {
	release := make(chan struct{})
	hanging := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer hanging.Close()
	defer close(release)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<a href="%s/stuck">stuck</a>`, hanging.URL)
	}))
	defer page.Close()

	cfg := testConfig()
	cfg.LinkTimeout = 200 * time.Millisecond

	start := time.Now()
	rec := NewDefault(cfg).Run(context.Background(), page.URL)
	elapsed := time.Since(start)

	want := []string{hanging.URL + "/stuck"}
	if !reflect.DeepEqual(rec.BrokenLinks, want) {
		t.Errorf("BrokenLinks = %v, want %v", rec.BrokenLinks, want)
	}
	if elapsed > 2*time.Second {
		t.Errorf("audit took %v, want it bounded by the link timeout", elapsed)
	}
}
