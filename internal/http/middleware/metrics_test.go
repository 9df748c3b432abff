package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/stats", func(c *gin.Context) {
		c.String(http.StatusOK, `{"total_messages":3}`)
	})
	// 204 with no body leaves the writer size at -1, which must not be
	// recorded in the size histogram.
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Baselines guard against other tests in the package having already
	// touched the shared collectors.
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/stats", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/unrouted", "404"))

	for _, target := range []struct {
		path string
		want int
	}{
		{"/stats", http.StatusOK},
		{"/unrouted", http.StatusNotFound},
		{"/empty", http.StatusNoContent},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target.path, nil))
		if w.Code != target.want {
			t.Fatalf("GET %s = %d, want %d", target.path, w.Code, target.want)
		}
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/stats", "200")); got != baseOK+1 {
		t.Fatalf("request counter for /stats = %v, want %v", got, baseOK+1)
	}
	// Unmatched routes fall back to the raw URL path label.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/unrouted", "404")); got != baseMiss+1 {
		t.Fatalf("request counter for unrouted path = %v, want %v", got, baseMiss+1)
	}
	if inflight := testutil.ToFloat64(httpInflight); inflight != 0 {
		t.Fatalf("inflight gauge = %v after requests drained, want 0", inflight)
	}
}
