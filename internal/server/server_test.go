package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gigurra/rental-dashboard/internal"
)

func TestServe_StopsOnContextCancel(t *testing.T) {
	d := NewDashboard(testRecords(), 2011, internal.NewDefaultConfig(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, d, Options{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second}, zap.NewNop())
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
