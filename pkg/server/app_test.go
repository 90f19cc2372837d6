package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xhttp "StockPredict/pkg/http"
)

type closeCounter struct {
	calls int
	err   error
}

func (c *closeCounter) Close() error {
	c.calls++
	return c.err
}

func newTestServer() *xhttp.Server {
	return xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetrics(false, ""),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
}

func TestRunContextStopsAndClosesCache(t *testing.T) {
	c := &closeCounter{}
	app := New(newTestServer(), c, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, 1, c.calls)
}

func TestShutdownIgnoresCacheCloseError(t *testing.T) {
	c := &closeCounter{err: errors.New("boom")}
	app := New(newTestServer(), c, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, 1, c.calls)
}

func TestNewWithoutCache(t *testing.T) {
	app := New(newTestServer(), nil, nil)
	assert.Empty(t, app.closers)
}
