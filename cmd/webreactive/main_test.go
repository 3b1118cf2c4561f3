package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.akshayshah.org/webreactive/internal/logging"
	"go.akshayshah.org/webreactive/internal/sample"
)

// freeAddress returns a loopback address that was free a moment ago.
func freeAddress(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func TestRunStopsWithContext(t *testing.T) {
	addr := freeAddress(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- newCommand().Run(ctx, []string{
			"webreactive",
			"--address", addr,
			"--log-level", "error",
			"--gin-mode", "test",
		})
	}()

	require.Eventually(t, func() bool {
		res, err := http.Get(fmt.Sprintf("http://%s/static/spring.txt", addr))
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 10*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("command didn't stop after cancellation")
	}
}

func TestRunRejectsBadAddress(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{
		"webreactive",
		"--address", "not-an-address",
		"--log-level", "error",
	})
	assert.Error(t, err)
}

func TestRunRejectsBadFlags(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{
		"webreactive",
		"--address", "127.0.0.1:0",
		"--gin-mode", "prod",
	})
	assert.ErrorIs(t, err, sample.ErrInvalidGinMode)

	err = newCommand().Run(context.Background(), []string{
		"webreactive",
		"--address", "127.0.0.1:0",
		"--log-level", "trace",
	})
	assert.ErrorIs(t, err, logging.ErrUnknownLevel)
}
