package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type role string

type fakeResolver map[string][2]string

func (f fakeResolver) ResolveSession(_ context.Context, token string) (string, string, error) {
	if token == "broken" {
		return "", "", errors.New("load session: connection refused")
	}
	entry, ok := f[token]
	if !ok {
		return "", "", ErrUnauthenticated
	}
	return entry[0], entry[1], nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})
	r.GET("/guarded", handlers...)
	return r
}

func do(r http.Handler, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cookie})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionRequired(t *testing.T) {
	resolver := fakeResolver{"good": {"u1", "VIP"}}
	r := newRouter(SessionRequired("sid", resolver))

	rec := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())

	rec = do(r, "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(r, "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"u1","role":"VIP"}`, rec.Body.String())
}

func TestSessionRequiredBackendFailureIsNotUnauthorized(t *testing.T) {
	r := newRouter(SessionRequired("sid", fakeResolver{}))

	rec := do(r, "broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}

func TestRequireRolesIsAnAllowList(t *testing.T) {
	resolver := fakeResolver{"admin": {"a", "ADMIN"}, "mod": {"m", "MOD"}, "vip": {"v", "VIP"}}
	r := newRouter(SessionRequired("sid", resolver), RequireRoles(role("MOD")))

	assert.Equal(t, http.StatusOK, do(r, "mod").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "vip").Code)
	// ADMIN is not implicitly above MOD.
	assert.Equal(t, http.StatusForbidden, do(r, "admin").Code)
}

func TestRequireRolesWithoutSession(t *testing.T) {
	r := newRouter(RequireRoles("ADMIN"))
	rec := do(r, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHTTPMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(metrics.Handler())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			counts[labelValue(metric, "route")+" "+labelValue(metric, "status")] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"/items/:id 204": 2, "unmatched 404": 1}, counts)
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}
