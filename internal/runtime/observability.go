package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/orizon-mrt/internal/allocator"
)

// MetricsExporter serves the collector's live GCStats snapshot and recent
// cycle history as JSON over a debug HTTP endpoint (§4.14). Starting the
// endpoint is optional and off by default; polling it never touches the
// mutator's hot path, since it only ever reads snapshots the collector
// already keeps.
type MetricsExporter struct {
	mu sync.Mutex

	srv    *http.Server
	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewMetricsExporter constructs an idle exporter; call StartDebugEndpoint
// to serve it over HTTP.
func NewMetricsExporter() *MetricsExporter {
	return &MetricsExporter{}
}

// StartDebugEndpoint starts a lightweight HTTP server on addr exposing:
//
//	GET /gc/stats  -> JSON allocator.GCStats snapshot
//	GET /gc/cycles -> JSON array of allocator.CycleSample, oldest first
//
// modeled on this codebase's minimal-mux, no-framework debug-endpoint
// pattern. The server's Serve goroutine and its shutdown wait are
// coordinated through an errgroup so StopDebugEndpoint can report either
// one's failure instead of silently discarding it.
func (m *MetricsExporter) StartDebugEndpoint(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/gc/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(allocator.GCGetStats())
	})

	mux.HandleFunc("/gc/cycles", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(allocator.GCCycleHistory())
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, cancel := context.WithCancel(context.Background())
	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	m.mu.Lock()
	m.srv = srv
	m.group = group
	m.cancel = cancel
	m.mu.Unlock()

	return nil
}

// StopDebugEndpoint gracefully shuts the debug endpoint down, a no-op if it
// was never started.
func (m *MetricsExporter) StopDebugEndpoint() error {
	m.mu.Lock()
	srv, group, cancel := m.srv, m.group, m.cancel
	m.srv, m.group, m.cancel = nil, nil, nil
	m.mu.Unlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	err := srv.Shutdown(shutdownCtx)
	cancel()

	if waitErr := group.Wait(); waitErr != nil && err == nil {
		err = waitErr
	}

	return err
}
