package dwapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	chain := dwapi.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.OnRequest(func(ctx context.Context, req *dwapi.Request) error {
		executionOrder = append(executionOrder, "first")
		return nil
	})

	chain.OnRequest(func(ctx context.Context, req *dwapi.Request) error {
		executionOrder = append(executionOrder, "second")
		return nil
	})

	req := &dwapi.Request{
		Method: "GET",
		Path:   "/test",
	}

	err := chain.RunRequest(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_RequestInterceptorError(t *testing.T) {
	chain := dwapi.NewInterceptorChain()
	ctx := context.Background()

	boom := errors.New("boom")

	chain.OnRequest(func(ctx context.Context, req *dwapi.Request) error {
		return boom
	})

	var reached bool

	chain.OnRequest(func(ctx context.Context, req *dwapi.Request) error {
		reached = true
		return nil
	})

	err := chain.RunRequest(ctx, &dwapi.Request{Method: "GET", Path: "/test"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
}

func TestInterceptorChain_ResponseInterceptors(t *testing.T) {
	chain := dwapi.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.OnResponse(func(ctx context.Context, req *dwapi.Request, resp *dwapi.Response) error {
		executionOrder = append(executionOrder, "first")
		return nil
	})

	chain.OnResponse(func(ctx context.Context, req *dwapi.Request, resp *dwapi.Response) error {
		executionOrder = append(executionOrder, "second")
		return nil
	})

	req := &dwapi.Request{
		Method: "GET",
		Path:   "/test",
	}
	resp := &dwapi.Response{
		StatusCode: 200,
	}

	err := chain.RunResponse(ctx, req, resp)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestHeaderInterceptor(t *testing.T) {
	interceptor := dwapi.HeaderInterceptor("X-Custom-Header", "custom-value")
	ctx := context.Background()
	req := &dwapi.Request{
		Method: "GET",
		Path:   "/test",
	}

	err := interceptor(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "custom-value", req.Headers.Get("X-Custom-Header"))
}

func TestRateLimitInterceptor(t *testing.T) {
	interceptor := dwapi.RateLimitInterceptor(100)
	ctx := context.Background()

	// The bucket starts full, so the first batch passes immediately.
	for i := 0; i < 10; i++ {
		err := interceptor(ctx, &dwapi.Request{Method: "GET", Path: "/test"})
		require.NoError(t, err)
	}
}

func TestRateLimitInterceptor_ContextCancelled(t *testing.T) {
	interceptor := dwapi.RateLimitInterceptor(1)

	// Drain the single token.
	err := interceptor(context.Background(), &dwapi.Request{Method: "GET", Path: "/test"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = interceptor(ctx, &dwapi.Request{Method: "GET", Path: "/test"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
