package logger

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// UnaryServerInterceptor returns a gRPC unary server interceptor for logging
func UnaryServerInterceptor(logger interfaces.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		ctx = WithContext(ctx, logger)

		resp, err := handler(ctx, req)

		code := codes.OK
		if err != nil {
			if s, ok := status.FromError(err); ok {
				code = s.Code()
			} else {
				code = codes.Unknown
			}
		}

		fields := []interfaces.Field{
			interfaces.String("method", info.FullMethod),
			interfaces.Duration("duration", time.Since(start)),
			interfaces.String("status", code.String()),
		}

		if err != nil {
			fields = append(fields, interfaces.Error(err))
			logger.Error("gRPC request failed", fields...)
		} else {
			logger.Debug("gRPC request completed", fields...)
		}

		return resp, err
	}
}
