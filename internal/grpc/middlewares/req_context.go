package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDHeader is the metadata key a caller may set to choose its own id
const RequestIDHeader = "x-request-id"

func ContextMiddleware(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	requestID := incomingRequestID(ctx)
	if requestID == "" {
		requestID = generateRequestID()
	}
	// fails outside a real stream, e.g. when called directly in tests
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return handler(ctx, req)
}

// RequestID returns the id ContextMiddleware attached to ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(RequestIDHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}

func generateRequestID() string {
	return uuid.NewString()
}
