package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheus_UnmatchedPathsShareOneSeries(t *testing.T) {
	r := gin.New()
	r.Use(Prometheus())
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	routed := httpRequestsTotal.WithLabelValues(http.MethodGet, "/orders/:id", "200")
	beforeUnmatched := testutil.ToFloat64(unmatched)
	beforeRouted := testutil.ToFloat64(routed)

	for _, p := range []string{"/wp-admin", "/products", "/a/b/c", "/orders/7", "/orders/8"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(unmatched) - beforeUnmatched; got != 3 {
		t.Fatalf("unmatched=%v, want 3", got)
	}
	if got := testutil.ToFloat64(routed) - beforeRouted; got != 2 {
		t.Fatalf("routed=%v, want 2", got)
	}
	for _, p := range []string{"/wp-admin", "/a/b/c"} {
		if testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, p, "404")) != 0 {
			t.Fatalf("raw path %s got its own series", p)
		}
	}
}

func TestRecordAPICall(t *testing.T) {
	ok := apiCalls.WithLabelValues("fetch_all", "success")
	failed := apiCalls.WithLabelValues("fetch_all", "error")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordAPICall("fetch_all", true)
	RecordAPICall("fetch_all", false)
	RecordAPICall("fetch_all", false)

	if testutil.ToFloat64(ok)-beforeOK != 1 || testutil.ToFloat64(failed)-beforeFailed != 2 {
		t.Fatal("api call counters did not move as expected")
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		rid, _ := c.Get("rid")
		c.String(http.StatusOK, "%v", rid)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if id := w.Header().Get(requestIDHeader); id == "" || id != w.Body.String() {
		t.Fatalf("header=%q body=%q", id, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "abc-123" {
		t.Fatalf("incoming id not kept: %q", w.Header().Get(requestIDHeader))
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}
