// Package cluster is the client side of distributed estimation: it
// splits a sample budget across remote compute nodes, posts each node
// its share, and gathers the returned partial counts into one
// estimate. Each node further splits its share across local workers;
// the node seed it receives drives that inner split, so a fixed
// (budget, seed, node list) is reproducible end to end.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gomcpi/pkg/mcpi"
	"github.com/qcserestipy/gomcpi/pkg/serve"
	"github.com/qcserestipy/gomcpi/pkg/workerpool"
)

// Client fans estimation requests out to a fixed set of node base
// URLs, e.g. "http://localhost:3000".
type Client struct {
	Nodes      []string
	HTTPClient *http.Client
}

func NewClient(nodes []string) *Client {
	return &Client{
		Nodes:      nodes,
		HTTPClient: &http.Client{Timeout: 10 * time.Minute},
	}
}

type nodeTask struct {
	url     string
	samples uint64
	seed    uint64
}

// Estimate splits nSamples across the client's nodes (same
// remainder-first partition as the local split), derives one seed per
// node from seed, posts /compute to every node concurrently, and
// gathers all returned per-worker counts in a single reduction.
func (c *Client) Estimate(ctx context.Context, nSamples, seed uint64) (float64, error) {
	if len(c.Nodes) == 0 {
		return 0, fmt.Errorf("%w: no nodes configured", mcpi.ErrInvalidArgument)
	}
	counts, err := mcpi.GenerateSampleCounts(nSamples, len(c.Nodes))
	if err != nil {
		return 0, err
	}
	seeds, err := mcpi.GenerateSeeds(len(c.Nodes), seed)
	if err != nil {
		return 0, err
	}

	tasks := make([]nodeTask, len(c.Nodes))
	for i, url := range c.Nodes {
		tasks[i] = nodeTask{url: url, samples: counts[i], seed: seeds[i]}
	}

	pool := workerpool.New[nodeTask, serve.ComputeResponse](
		workerpool.WithWorkers(len(c.Nodes)),
	)
	responses, err := pool.Run(ctx, tasks, c.compute)
	if err != nil {
		return 0, err
	}

	// flatten every node's per-worker counts into one gather
	var circleCounts, sampleCounts []uint64
	for _, resp := range responses {
		circleCounts = append(circleCounts, resp.CircleCounts...)
		sampleCounts = append(sampleCounts, resp.SampleCounts...)
	}
	return mcpi.Gather(circleCounts, sampleCounts)
}

func (c *Client) compute(ctx context.Context, t nodeTask) (serve.ComputeResponse, error) {
	reqBody := serve.ComputeRequest{Samples: t.samples, Seed: t.seed}
	buf, err := json.Marshal(reqBody)
	if err != nil {
		return serve.ComputeResponse{}, err
	}

	url := t.url + "/compute"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(buf))
	if err != nil {
		return serve.ComputeResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return serve.ComputeResponse{}, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return serve.ComputeResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return serve.ComputeResponse{}, fmt.Errorf("POST %s: status %d: %s", url, resp.StatusCode, data)
	}

	var cr serve.ComputeResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return serve.ComputeResponse{}, fmt.Errorf("invalid JSON from %s: %w", url, err)
	}
	logrus.WithFields(logrus.Fields{
		"node":    t.url,
		"samples": t.samples,
	}).Debug("Node returned partials")
	return cr, nil
}

// WaitReady polls each node's root route until it answers or ctx
// expires. Used when nodes are launched alongside the client.
func (c *Client) WaitReady(ctx context.Context) error {
	for _, url := range c.Nodes {
		for {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/", nil)
			if err != nil {
				return err
			}
			if resp, err := c.HTTPClient.Do(req); err == nil {
				resp.Body.Close()
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}
	return nil
}
