package middleware

// This in-memory cache is used for simplicity purpose. It can be replaced with Redis.
// golang-lru Automatically evicts the least recently accessed items, ensuring efficient memory usage.

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"google.golang.org/grpc"
)

// Cache memoizes responses of read-only methods.
//
// Keys include the store generation, so loading a new series makes every
// earlier entry unreachable; stale entries then age out of the LRU.
type Cache struct {
	lru        *lru.Cache
	generation func() uint64
	methods    map[string]bool
}

// NewCache sets up an in-memory LRU cache of size entries for methods.
func NewCache(size int, generation func() uint64, methods ...string) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	cacheable := make(map[string]bool, len(methods))
	for _, m := range methods {
		cacheable[m] = true
	}

	return &Cache{
		lru:        c,
		generation: generation,
		methods:    cacheable,
	}, nil
}

// Interceptor is a gRPC middleware for caching responses in memory.
func (c *Cache) Interceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if !c.methods[info.FullMethod] {
			return handler(ctx, req)
		}

		key, err := c.key(info.FullMethod, req)
		if err != nil {
			return handler(ctx, req)
		}

		// Check the in-memory cache for a response.
		if cachedResp, ok := c.lru.Get(key); ok {
			return cachedResp, nil
		}

		// Cache miss: Proceed with the handler.
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, err
		}

		// Store the response in the cache.
		c.lru.Add(key, resp)
		return resp, nil
	}
}

// Len returns the number of cached responses
func (c *Cache) Len() int {
	return c.lru.Len()
}

// key is based on the store generation, the gRPC method and the request.
func (c *Cache) key(method string, req interface{}) (string, error) {
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%s:%s", c.generation(), method, string(reqBytes)), nil
}
