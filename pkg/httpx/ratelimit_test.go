package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/pkg/httpx"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remote string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote addr", nil, "192.168.1.1"},
		{"forwarded for first hop", map[string]string{"X-Forwarded-For": "203.0.113.1, 192.168.1.1"}, "203.0.113.1"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
		{"blank forwarded for falls through", map[string]string{"X-Forwarded-For": " ", "X-Real-IP": "203.0.113.3"}, "203.0.113.3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tc.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestCompositeKeyExtractor(t *testing.T) {
	ex := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.HeaderKeyExtractor("X-Device"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	require.Equal(t, "192.168.1.1", ex(req), "empty parts are skipped")

	req.Header.Set("X-Device", "phone-7")
	require.Equal(t, "192.168.1.1:phone-7", ex(req))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks once the burst is spent", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3})(okHandler())

		for i := range 3 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code, "request %d", i+1)
		}
		rec := hit(h, "192.168.1.1:1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("keys are independent", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler())

		require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1").Code)
		require.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1").Code)
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		empty := func(*http.Request) string { return "" }
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, empty)(okHandler())

		for range 3 {
			require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	for name, cfg := range map[string]httpx.RateLimitConfig{
		"account": httpx.AccountLimit,
		"write":   httpx.WriteLimit,
		"read":    httpx.ReadLimit,
		"public":  httpx.PublicLimit,
	} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, cfg.RequestsPerWindow)
			require.Positive(t, cfg.Window)
			require.Positive(t, cfg.Burst)
		})
	}
	require.Less(t, httpx.AccountLimit.RequestsPerWindow, httpx.WriteLimit.RequestsPerWindow)
	require.Less(t, httpx.WriteLimit.RequestsPerWindow, httpx.ReadLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("UNSET", def))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_T1_REQUESTS", "200")
		t.Setenv("RATELIMIT_T1_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_T1_BURST", "250")
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 200, Window: 30 * time.Second, Burst: 250},
			httpx.ParseRateLimitFromEnv("T1", def))
	})

	t.Run("garbage and zero are ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_T2_REQUESTS", "lots")
		t.Setenv("RATELIMIT_T2_WINDOW_SEC", "-10")
		t.Setenv("RATELIMIT_T2_BURST", "0")
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("T2", def))
	})
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1_000_000, Window: time.Minute, Burst: 1000})(okHandler())
	for i := 0; b.Loop(); i++ {
		hit(h, fmt.Sprintf("192.168.%d.%d:1", i%255, (i/255)%255))
	}
}
