package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// SignalHandler cancels a run on SIGINT or SIGTERM. A sweep stops before
// its next pull request; serve drains its listener.
type SignalHandler struct {
	signals  chan os.Signal
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	cancel   context.CancelFunc
	log      *zap.Logger
}

// NewSignalHandler creates a signal handler with the given context cancel.
// A nil logger discards output.
func NewSignalHandler(cancel context.CancelFunc, log *zap.Logger) *SignalHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
		log:     log,
	}
}

// Start begins listening for signals
func (h *SignalHandler) Start() {
	h.listen(true)
}

// listen skips OS registration when notify is false so tests can feed
// h.signals directly.
func (h *SignalHandler) listen(notify bool) {
	if notify {
		signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	}

	started := make(chan struct{})
	go func() {
		defer close(h.done)
		close(started)

		select {
		case sig := <-h.signals:
			h.log.Info("received signal, stopping", zap.String("signal", sig.String()))
			if h.cancel != nil {
				h.cancel()
			}
		case <-h.stopCh:
		}
	}()
	<-started
}

// Stop unregisters the handler. Safe to call more than once.
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	select {
	case <-h.done:
	case <-time.After(100 * time.Millisecond):
	}
}
