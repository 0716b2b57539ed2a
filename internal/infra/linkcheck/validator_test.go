package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleTitle = "Marrakech élue meilleure destination touristique en Afrique"

// testConfig returns a config suitable for httptest servers on loopback.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = false
	cfg.Timeout = 2 * time.Second
	return cfg
}

func htmlPage(title string) string {
	return fmt.Sprintf("<!doctype html><html><head><title>%s</title></head><body><p>contenu</p></body></html>", title)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type stubResolver struct {
	addrs []net.IPAddr
	err   error
}

func (s stubResolver) LookupIPAddr(context.Context, string) ([]net.IPAddr, error) {
	return s.addrs, s.err
}

// ────────────────────────────────────────────────────────────
// Input validation
// ────────────────────────────────────────────────────────────

func TestValidate_InvalidURLNeverTouchesNetwork(t *testing.T) {
	var calls int32
	v := New(testConfig(), WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("unexpected network call")
	})))

	for _, raw := range []string{"", "#", "   ", "/relative/path", "ftp://example.com/a", "javascript:alert(1)"} {
		t.Run(raw, func(t *testing.T) {
			res := v.Validate(context.Background(), raw, articleTitle)
			assert.False(t, res.Valid)
			assert.Equal(t, "empty/invalid URL", res.Reason)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

// ────────────────────────────────────────────────────────────
// Status and title classification
// ────────────────────────────────────────────────────────────

func TestValidate_Responses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantValid  bool
		wantReason string
	}{
		{
			name:      "article page",
			status:    http.StatusOK,
			body:      htmlPage("Marrakech élue meilleure destination touristique en Afrique - Tourisme Maroc"),
			wantValid: true,
		},
		{
			name:      "partial content",
			status:    http.StatusPartialContent,
			body:      htmlPage("Marrakech élue meilleure destination touristique"),
			wantValid: true,
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       htmlPage("Marrakech élue meilleure destination touristique"),
			wantReason: "HTTP 404",
		},
		{
			name:       "gone",
			status:     http.StatusGone,
			body:       "",
			wantReason: "HTTP 410",
		},
		{
			name:       "server error",
			status:     http.StatusBadGateway,
			body:       "",
			wantReason: "HTTP 502 server error",
		},
		{
			name:       "no title",
			status:     http.StatusOK,
			body:       "<html><body>rien</body></html>",
			wantReason: "missing page title",
		},
		{
			name:       "soft 404",
			status:     http.StatusOK,
			body:       htmlPage("Page introuvable | Tourisme Maroc"),
			wantReason: `error page detected: "introuvable"`,
		},
		{
			name:       "redirected home",
			status:     http.StatusOK,
			body:       htmlPage("Accueil"),
			wantReason: "redirected to homepage",
		},
		{
			name:      "generic title sharing a word",
			status:    http.StatusOK,
			body:      htmlPage("Marrakech | Tourisme"),
			wantValid: true,
		},
		{
			name:      "forbidden challenge page",
			status:    http.StatusForbidden,
			body:      htmlPage("Just a moment, checking your browser"),
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := New(testConfig()).Validate(context.Background(), srv.URL+"/article", articleTitle)
			assert.Equal(t, tt.wantValid, res.Valid, "reason: %s", res.Reason)
			if !tt.wantValid {
				assert.Equal(t, tt.wantReason, res.Reason)
			}
		})
	}
}

func TestValidate_RequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(htmlPage("Marrakech élue meilleure destination")))
	}))
	defer srv.Close()

	res := New(testConfig()).Validate(context.Background(), srv.URL, articleTitle)
	require.True(t, res.Valid)

	assert.Equal(t, "bytes=0-8191", got.Get("Range"))
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "fr-FR,fr;q=0.9", got.Get("Accept-Language"))
	assert.Contains(t, got.Get("Accept"), "text/html")
}

func TestValidate_ReadsOnlyTheConfiguredPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server ignores Range and sends the title after 10 KB of head content.
		_, _ = w.Write([]byte("<html><head>" + strings.Repeat("<meta name=x content=y>", 500)))
		_, _ = w.Write([]byte("<title>Marrakech élue meilleure destination</title></head></html>"))
	}))
	defer srv.Close()

	res := New(testConfig()).Validate(context.Background(), srv.URL, articleTitle)
	assert.False(t, res.Valid)
	assert.Equal(t, "missing page title", res.Reason)
}

func TestValidate_TitleCappedAt200Runes(t *testing.T) {
	long := strings.Repeat("é", 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(htmlPage("Marrakech " + long)))
	}))
	defer srv.Close()

	res := New(testConfig()).Validate(context.Background(), srv.URL, articleTitle)
	assert.True(t, res.Valid)
	assert.Equal(t, 200, len([]rune(res.PageTitle)))
}

func TestValidate_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(htmlPage("Accueil")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res := New(testConfig()).Validate(context.Background(), srv.URL+"/old", articleTitle)
	assert.False(t, res.Valid)
	assert.Equal(t, "redirected to homepage", res.Reason)
	assert.Equal(t, "Accueil", res.PageTitle)
}

// ────────────────────────────────────────────────────────────
// Fail-open
// ────────────────────────────────────────────────────────────

func TestValidate_TimeoutIsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Timeout = 150 * time.Millisecond

	start := time.Now()
	res := New(cfg).Validate(context.Background(), srv.URL, articleTitle)
	assert.True(t, res.Valid)
	assert.Contains(t, res.Reason, "timeout")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestValidate_ConnectionRefusedIsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := New(testConfig()).Validate(context.Background(), url, articleTitle)
	assert.True(t, res.Valid)
	assert.Equal(t, "network error (accepted)", res.Reason)
}

func TestValidate_TransportErrorIsAccepted(t *testing.T) {
	v := New(testConfig(), WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("tls: handshake failure")
	})))

	res := v.Validate(context.Background(), "https://www.le360.ma/article", articleTitle)
	assert.True(t, res.Valid)
	assert.Equal(t, "network error (accepted)", res.Reason)
}

func TestValidate_CallerCancellationIsRejected(t *testing.T) {
	// A dead page that answers slowly: the caller gives up before the 404 arrives.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
			w.WriteHeader(http.StatusNotFound)
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{
			name: "already cancelled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
		},
		{
			name: "cancelled mid-fetch",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(30*time.Millisecond, cancel)
				return ctx, cancel
			},
		},
		{
			name: "caller deadline shorter than the validator timeout",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 30*time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			res := New(testConfig()).Validate(ctx, srv.URL+"/dead/0", articleTitle)

			assert.False(t, res.Valid)
			assert.Equal(t, "cancelled", res.Reason)
		})
	}
}

func TestValidate_TooManyRedirectsIsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2

	res := New(cfg).Validate(context.Background(), srv.URL+"/a", articleTitle)
	assert.True(t, res.Valid)
	assert.Equal(t, "network error (accepted)", res.Reason)
}

// ────────────────────────────────────────────────────────────
// Private address guard
// ────────────────────────────────────────────────────────────

func TestValidate_PrivateAddressGuard(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		resolver   stubResolver
		wantValid  bool
		wantReason string
	}{
		{
			name:       "literal loopback",
			url:        "http://127.0.0.1/admin",
			wantReason: "private address",
		},
		{
			name:       "metadata endpoint",
			url:        "http://169.254.169.254/latest/meta-data",
			wantReason: "private address",
		},
		{
			name:       "hostname resolving to private network",
			url:        "http://intranet.example.com/",
			resolver:   stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("10.0.0.5")}}},
			wantReason: "private address",
		},
		{
			name:       "dns failure is a transport error",
			url:        "http://unknown.example.com/",
			resolver:   stubResolver{err: &net.DNSError{Err: "no such host", Name: "unknown.example.com", IsNotFound: true}},
			wantValid:  true,
			wantReason: "network error (accepted)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.DenyPrivateIPs = true
			v := New(cfg, WithResolver(tt.resolver), WithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("unexpected network call")
			})))

			res := v.Validate(context.Background(), tt.url, articleTitle)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}
}

func TestValidate_RedirectToPrivateAddressIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://10.0.0.1/internal", http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.DenyPrivateIPs = true
	// The first hop resolves publicly; the redirect target is a private literal.
	v := New(cfg, WithResolver(stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}}))

	publicURL := strings.Replace(srv.URL, "127.0.0.1", "news.example.com", 1)
	v.client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(ctx, network, srv.Listener.Addr().String())
		},
	}

	res := v.Validate(context.Background(), publicURL, articleTitle)
	assert.False(t, res.Valid)
	assert.Equal(t, "private address", res.Reason)
}

func TestValidate_HostRebindingToPrivateAddressIsRejectedAtDial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(htmlPage("Le port de Tanger Med bat un nouveau record")))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.DenyPrivateIPs = true
	// The pre-flight lookup answers with a public address; the dialer then resolves
	// localhost to loopback.
	v := New(cfg, WithResolver(stubResolver{addrs: []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}}))

	rebound := strings.Replace(srv.URL, "127.0.0.1", "localhost", 1)
	res := v.Validate(context.Background(), rebound, articleTitle)

	assert.False(t, res.Valid)
	assert.Equal(t, "private address", res.Reason)
}

func TestDialControl(t *testing.T) {
	tests := []struct {
		address string
		wantErr error
	}{
		{address: "93.184.216.34:443"},
		{address: "[2606:4700::1111]:443"},
		{address: "127.0.0.1:80", wantErr: ErrPrivateAddress},
		{address: "10.1.2.3:8080", wantErr: ErrPrivateAddress},
		{address: "169.254.169.254:80", wantErr: ErrPrivateAddress},
		{address: "[::1]:80", wantErr: ErrPrivateAddress},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			err := dialControl("tcp", tt.address, nil)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Error(t, dialControl("tcp", "not-an-address", nil))
}

// ────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "timeout too small", mutate: func(c *Config) { c.Timeout = time.Millisecond }, wantErr: true},
		{name: "timeout too large", mutate: func(c *Config) { c.Timeout = 2 * time.Minute }, wantErr: true},
		{name: "body too small", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
		{name: "negative redirects", mutate: func(c *Config) { c.MaxRedirects = -1 }, wantErr: true},
		{name: "zero title length", mutate: func(c *Config) { c.MaxTitleLength = 0 }, wantErr: true},
		{name: "empty user agent", mutate: func(c *Config) { c.UserAgent = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LINK_CHECK_TIMEOUT", "3s")
	t.Setenv("LINK_CHECK_MAX_BYTES", "16384")
	t.Setenv("LINK_CHECK_DENY_PRIVATE_IPS", "false")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, int64(16384), cfg.MaxBodyBytes)
	assert.False(t, cfg.DenyPrivateIPs)
	assert.Equal(t, 5, cfg.MaxRedirects)

	t.Setenv("LINK_CHECK_MAX_REDIRECTS", "50")
	_, err = LoadConfigFromEnv()
	assert.Error(t, err)
}
