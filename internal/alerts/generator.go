package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/callsight/pkg/logger"
)

// DefaultMockInterval matches the cadence of the dashboard's mock feed.
const DefaultMockInterval = 8 * time.Second

// MockGenerator emits fabricated sweep alerts on a fixed cadence so the
// feed stays alive without flow credentials.
type MockGenerator struct {
	hub      *Hub
	logger   *logger.Logger
	interval time.Duration

	mu     sync.RWMutex
	symbol string

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewMockGenerator creates a mock alert generator for a starting symbol
func NewMockGenerator(hub *Hub, symbol string, interval time.Duration, log *logger.Logger) *MockGenerator {
	if interval <= 0 {
		interval = DefaultMockInterval
	}
	return &MockGenerator{
		hub:      hub,
		logger:   log,
		interval: interval,
		symbol:   symbol,
		stopCh:   make(chan struct{}),
	}
}

// Start seeds the feed and begins the emit loop.
func (g *MockGenerator) Start(ctx context.Context) {
	g.hub.Publish(NewMockAlert(g.Symbol()))

	g.wg.Add(1)
	go g.run(ctx)

	g.logger.WithFields(map[string]interface{}{
		"symbol":   g.Symbol(),
		"interval": g.interval.String(),
	}).Info("Mock alert generator started")
}

// Stop terminates the emit loop and waits for it to exit.
func (g *MockGenerator) Stop() {
	close(g.stopCh)
	g.wg.Wait()
	g.logger.Info("Mock alert generator stopped")
}

// SetSymbol switches the ticker and seeds a fresh alert, mirroring the
// dashboard reseeding the feed on symbol change.
func (g *MockGenerator) SetSymbol(symbol string) {
	g.mu.Lock()
	g.symbol = symbol
	g.mu.Unlock()

	g.hub.Publish(NewMockAlert(symbol))
}

// Symbol returns the current ticker.
func (g *MockGenerator) Symbol() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.symbol
}

func (g *MockGenerator) run(ctx context.Context) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-g.stopCh:
			return
		case <-ticker.C:
			g.hub.Publish(NewMockAlert(g.Symbol()))
		}
	}
}
