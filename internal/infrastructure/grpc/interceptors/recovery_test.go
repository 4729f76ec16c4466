package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/narwhalmedia/marquee/pkg/logger"
)

func TestUnaryRecoveryInterceptor(t *testing.T) {
	interceptor := UnaryRecoveryInterceptor(logger.NewNoop())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Panic"}

	resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestUnaryRecoveryInterceptor_PassesThrough(t *testing.T) {
	interceptor := UnaryRecoveryInterceptor(logger.NewNoop())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Ok"}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "resp", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "resp", resp)
}
