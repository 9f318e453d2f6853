package cluster

import (
	"context"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcserestipy/gomcpi/pkg/mcpi"
	"github.com/qcserestipy/gomcpi/pkg/serve"
)

func startNodes(t *testing.T, n, workers int) []string {
	t.Helper()
	urls := make([]string, n)
	for i := range urls {
		s := serve.New(workers)
		serve.RegisterCompute(s)
		ts := httptest.NewServer(s.Router)
		t.Cleanup(ts.Close)
		urls[i] = ts.URL
	}
	return urls
}

func TestClusterEstimate(t *testing.T) {
	client := NewClient(startNodes(t, 2, 2))
	require.NoError(t, client.WaitReady(context.Background()))

	pi, err := client.Estimate(context.Background(), 400000, 8888)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, pi, 5e-2)
}

func TestClusterEstimateDeterministic(t *testing.T) {
	client := NewClient(startNodes(t, 3, 2))

	a, err := client.Estimate(context.Background(), 100001, 8888)
	require.NoError(t, err)
	b, err := client.Estimate(context.Background(), 100001, 8888)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestClusterEstimateInvalid(t *testing.T) {
	client := NewClient(nil)
	_, err := client.Estimate(context.Background(), 1000, 1)
	require.ErrorIs(t, err, mcpi.ErrInvalidArgument)

	client = NewClient(startNodes(t, 1, 1))
	_, err = client.Estimate(context.Background(), 0, 1)
	require.ErrorIs(t, err, mcpi.ErrInvalidArgument)
}

func TestClusterEstimateNodeFailure(t *testing.T) {
	urls := startNodes(t, 1, 1)
	// second node does not exist; its POST must fail the whole run
	client := NewClient(append(urls, "http://127.0.0.1:1"))
	client.HTTPClient.Timeout = 2 * time.Second

	_, err := client.Estimate(context.Background(), 10000, 1)
	require.Error(t, err)
}

func TestWaitReadyTimeout(t *testing.T) {
	client := NewClient([]string{"http://127.0.0.1:1"})
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, client.WaitReady(ctx), context.DeadlineExceeded)
}
