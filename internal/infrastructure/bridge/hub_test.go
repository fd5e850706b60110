package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/pkg/logger"
)

func TestHubStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	hub.Publish(domain.DispatchEvent{Type: "dispatch"})
	cancel()
	<-done
	assert.Zero(t, hub.ClientCount())
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(logger.NewNop())
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.Publish(domain.DispatchEvent{Type: "dispatch"})
	}
	assert.Len(t, hub.broadcast, broadcastBuffer)
}
