package runtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/orizon-lang/orizon-mrt/internal/allocator"
)

func TestMetricsExporterServesStatsAndCycles(t *testing.T) {
	allocator.Shutdown()
	defer allocator.Shutdown()

	allocator.GCCollect()

	exporter := NewMetricsExporter()

	addr := "127.0.0.1:18099"
	if err := exporter.StartDebugEndpoint(addr); err != nil {
		t.Fatalf("StartDebugEndpoint: %v", err)
	}

	defer exporter.StopDebugEndpoint()

	base := "http://" + addr

	var stats allocator.GCStats
	if err := fetchJSON(t, base+"/gc/stats", &stats); err != nil {
		t.Fatalf("GET /gc/stats: %v", err)
	}

	var cycles []allocator.CycleSample
	if err := fetchJSON(t, base+"/gc/cycles", &cycles); err != nil {
		t.Fatalf("GET /gc/cycles: %v", err)
	}

	if len(cycles) == 0 {
		t.Error("expected at least one recorded cycle after gc_collect")
	}

	if err := exporter.StopDebugEndpoint(); err != nil {
		t.Errorf("StopDebugEndpoint: %v", err)
	}
}

func fetchJSON(t *testing.T, url string, dst any) error {
	t.Helper()

	var (
		resp *http.Response
		err  error
	)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = http.Get(url)
		if err == nil {
			break
		}

		time.Sleep(10 * time.Millisecond)
	}

	if err != nil {
		return fmt.Errorf("server never became reachable: %w", err)
	}

	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(dst)
}
