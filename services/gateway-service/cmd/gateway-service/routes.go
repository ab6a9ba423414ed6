package main

import (
	"embed"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/courtbook/libs/auth"
	"github.com/md-rashed-zaman/courtbook/libs/httpx"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/handlers"
)

//go:embed assets/gateway.v1.yaml
var openAPISpec embed.FS

type routes struct {
	schedule     *handlers.ScheduleHandler
	reservations *handlers.ReservationHandler
	verifier     auth.Verifier
	authURL      *url.URL
	bookingURL   *url.URL
	adminURL     *url.URL
}

func registerRoutes(mux *http.ServeMux, rt routes) {
	otelTransport := otelhttp.NewTransport(http.DefaultTransport)
	authProxy := newProxy(rt.authURL, otelTransport)
	bookingProxy := newProxy(rt.bookingURL, otelTransport)
	adminProxy := newProxy(rt.adminURL, otelTransport)

	mux.HandleFunc("GET /api/v1/schedule/config", rt.schedule.Config)
	mux.HandleFunc("GET /api/v1/schedule/slots", rt.schedule.Slots)
	mux.HandleFunc("GET /api/v1/schedule/overlap", rt.schedule.Overlap)
	mux.HandleFunc("GET /api/v1/schedule/format", rt.schedule.Format)
	mux.HandleFunc("POST /api/v1/bookings/validate", rt.schedule.Validate)

	mux.Handle("POST /api/v1/reservations", requireAuth(http.HandlerFunc(rt.reservations.Create), rt.verifier))
	registerProxy(mux, "/api/v1/reservations", requireAuth(bookingProxy, rt.verifier))
	registerProxy(mux, "/api/v1/auth", authProxy)
	registerProxy(mux, "/api/v1/admin", requireAuth(requireRole(adminProxy, "admin"), rt.verifier))
	registerProxy(mux, "/.well-known/jwks.json", authProxy)

	mux.HandleFunc("GET /openapi", func(w http.ResponseWriter, _ *http.Request) {
		data, err := openAPISpec.ReadFile("assets/gateway.v1.yaml")
		if err != nil {
			http.Error(w, "openapi not available", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func newProxy(target *url.URL, transport http.RoundTripper) *httputil.ReverseProxy {
	p := httputil.NewSingleHostReverseProxy(target)
	p.Transport = transport
	return p
}

func registerProxy(mux *http.ServeMux, prefix string, handler http.Handler) {
	if !strings.HasSuffix(prefix, "/") {
		mux.Handle(prefix, handler)
		mux.Handle(prefix+"/", handler)
		return
	}
	mux.Handle(prefix, handler)
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// requireAuth verifies the bearer token and hands the caller's identity to the next hop
// in X-User-Id and X-Role. Client supplied copies of those headers are dropped.
func requireAuth(next http.Handler, verifier auth.Verifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := httpx.BearerToken(r)
		if !ok {
			http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		r.Header.Del(handlers.UserIDHeader)
		r.Header.Del("X-Role")
		r.Header.Set(handlers.UserIDHeader, claims.Sub)
		r.Header.Set("X-Role", claims.Role)
		next.ServeHTTP(w, r)
	})
}

func requireRole(next http.Handler, roles ...string) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Header.Get("X-Role")
		if _, ok := allowed[role]; !ok {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
