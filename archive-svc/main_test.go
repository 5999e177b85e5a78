package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "foodfleet/archive-svc/internal/api/http"
	"foodfleet/archive-svc/internal/mocks"
	"foodfleet/archive-svc/internal/service"
)

type blockingConsumer struct {
	err error
}

func (c blockingConsumer) Start(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	<-ctx.Done()
	return nil
}

func newTestServer(t *testing.T) (*http.Server, string) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	logger, _ := test.NewNullLogger()
	svc := service.NewArchiveService(mocks.NewArchiveStore(t), mocks.NewPopularityStore(t))
	return httpapi.NewServer(addr, httpapi.NewRouter(httpapi.NewHandler(svc, logger), []string{"*"})), addr
}

func TestRunServesUntilCancelled(t *testing.T) {
	srv, addr := newTestServer(t)
	logger, _ := test.NewNullLogger()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, blockingConsumer{}, srv, logger) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunStopsWhenConsumerFails(t *testing.T) {
	srv, _ := newTestServer(t)
	logger, _ := test.NewNullLogger()
	boom := errors.New("group coordinator unavailable")

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), blockingConsumer{err: boom}, srv, logger) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after consumer failure")
	}
}
