package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveNode(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveNode("lib.image.Resize", 10*time.Millisecond, nil)
	r.ObserveNode("lib.image.Resize", 20*time.Millisecond, nil)
	r.ObserveNode("lib.image.Resize", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(r.nodeRuns.WithLabelValues("lib.image.Resize", StatusOK)); got != 2 {
		t.Errorf("ok runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.nodeRuns.WithLabelValues("lib.image.Resize", StatusError)); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.nodeDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestRecorder_ObserveWorkflow(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveWorkflow(time.Second, nil)

	want := `
# HELP image_nodes_workflow_runs_total Workflow executions by status.
# TYPE image_nodes_workflow_runs_total counter
image_nodes_workflow_runs_total{status="ok"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "image_nodes_workflow_runs_total"); err != nil {
		t.Error(err)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.ObserveNode("x", time.Second, nil)
	r.ObserveWorkflow(time.Second, errors.New("boom"))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg).ObserveNode("lib.grid.SliceImageGrid", time.Millisecond, nil)
	h := Handler(reg)

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/metrics", http.StatusOK, `image_nodes_node_runs_total{status="ok",type="lib.grid.SliceImageGrid"} 1`},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			body, _ := io.ReadAll(rec.Body)
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q:\n%s", tt.contains, body)
			}
		})
	}
}
