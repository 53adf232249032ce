package dwapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Request is the mutable view of an outgoing request that interceptors see
// before the connection dispatches it. Header changes made here are sent on
// the wire.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response is the read-only view of a response passing back through the
// chain.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor runs before a request is sent. Returning an error
// aborts the request.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor runs after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain holds the interceptors a connection runs around every
// dispatch, including reauthentication replays. Attach one via
// Config.Interceptors.
type InterceptorChain struct {
	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// OnRequest appends a request interceptor and returns the chain for chaining.
func (c *InterceptorChain) OnRequest(interceptor RequestInterceptor) *InterceptorChain {
	c.onRequest = append(c.onRequest, interceptor)

	return c
}

// OnResponse appends a response interceptor and returns the chain for
// chaining.
func (c *InterceptorChain) OnResponse(interceptor ResponseInterceptor) *InterceptorChain {
	c.onResponse = append(c.onResponse, interceptor)

	return c
}

// RunRequest runs the request interceptors in registration order, stopping at
// the first error.
func (c *InterceptorChain) RunRequest(ctx context.Context, req *Request) error {
	for _, interceptor := range c.onRequest {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// RunResponse runs the response interceptors in registration order, stopping
// at the first error.
func (c *InterceptorChain) RunResponse(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.onResponse {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs every outgoing request.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("Platform Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs every response, at error level when the
// dispatch itself failed.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			logger.Error("Platform Response Error", fields)
		} else {
			logger.Debug("Platform Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor sets a fixed header on every request.
func HeaderInterceptor(name, value string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set(name, value)

		return nil
	}
}

// RateLimitInterceptor limits outgoing requests to requestsPerSecond, with a
// burst of the same size. The bucket refills lazily from elapsed time, so the
// interceptor holds no background goroutine.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	interval := time.Second / time.Duration(requestsPerSecond)

	var mu sync.Mutex

	tokens := requestsPerSecond
	lastRefill := time.Now()

	return func(ctx context.Context, req *Request) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			mu.Lock()

			if refilled := int(time.Since(lastRefill) / interval); refilled > 0 {
				tokens += refilled
				if tokens > requestsPerSecond {
					tokens = requestsPerSecond
				}

				lastRefill = lastRefill.Add(time.Duration(refilled) * interval)
			}

			if tokens > 0 {
				tokens--
				mu.Unlock()

				return nil
			}

			wait := interval - time.Since(lastRefill)
			mu.Unlock()

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()

				return ctx.Err()
			}
		}
	}
}
