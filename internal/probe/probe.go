// Package probe checks stream liveness: one concurrent request per stream
// with an independent timeout, HEAD first with a ranged-GET retry, and all
// results joined before the caller proceeds.
package probe

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/airwave-radio/airwave/internal/model"
)

// Result is the outcome of probing one stream.
type Result struct {
	StationID string `json:"station_id"`
	StreamURL string `json:"stream_url"`
	Alive     bool   `json:"alive"`
	Status    int    `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Prober issues liveness checks against stream URLs.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// New builds a prober with a per-stream timeout.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Prober{
		client: &http.Client{
			// streams never finish; the body is irrelevant here
			CheckRedirect: nil,
		},
		timeout: timeout,
	}
}

// Check probes one stream. HEAD is tried first; servers that reject it get
// a ranged GET so we never pull the stream body.
func (p *Prober) Check(ctx context.Context, stationID, streamURL string) Result {
	res := Result{StationID: stationID, StreamURL: streamURL}

	status, err := p.request(ctx, http.MethodHead, streamURL)
	if err == nil && status < http.StatusBadRequest {
		res.Alive, res.Status = true, status
		return res
	}

	status, err = p.request(ctx, http.MethodGet, streamURL)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Status = status
	res.Alive = status < http.StatusBadRequest
	return res
}

func (p *Prober) request(ctx context.Context, method, streamURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, streamURL, nil)
	if err != nil {
		return 0, err
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// CheckAll probes every station concurrently and waits for all results;
// there is no partial or early return.
func (p *Prober) CheckAll(ctx context.Context, stations []model.Station) []Result {
	results := make([]Result, len(stations))
	g, ctx := errgroup.WithContext(ctx)
	for i, st := range stations {
		g.Go(func() error {
			results[i] = p.Check(ctx, st.ID, st.StreamURL)
			return nil
		})
	}
	// workers never return errors; Wait is the join point
	_ = g.Wait()
	return results
}
