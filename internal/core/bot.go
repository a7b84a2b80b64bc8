package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Bot runs reconciliation cycles on a timer. It serializes runs within
// the process: a new tick never starts a cycle while the previous one is
// still inside Run, because runs happen inline on the loop goroutine.
type Bot struct {
	name         string
	orchestrator *Orchestrator
	interval     time.Duration
	runOnce      bool
	mu           sync.RWMutex
	running      bool
	stopCh       chan struct{}
	errorCh      chan error
	shutdownFn   func() error
}

type BotConfig struct {
	Name         string
	Orchestrator *Orchestrator
	Interval     time.Duration
	RunOnce      bool
	ShutdownFn   func() error
}

func NewBot(config BotConfig) *Bot {
	if config.Interval == 0 {
		config.Interval = 5 * time.Minute
	}

	return &Bot{
		name:         config.Name,
		orchestrator: config.Orchestrator,
		interval:     config.Interval,
		runOnce:      config.RunOnce,
		running:      false,
		stopCh:       make(chan struct{}),
		errorCh:      make(chan error, 10),
		shutdownFn:   config.ShutdownFn,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return fmt.Errorf("bot already running")
	}
	b.running = true
	b.mu.Unlock()

	if b.runOnce {
		return b.runOnceMode(ctx)
	}

	return b.runContinuousMode(ctx)
}

func (b *Bot) runOnceMode(ctx context.Context) error {
	defer b.markStopped()

	if err := b.orchestrator.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("cycle execution failed: %w", err)
	}

	return nil
}

func (b *Bot) runContinuousMode(ctx context.Context) error {
	defer b.markStopped()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	if err := b.executeRun(ctx); err != nil {
		b.errorCh <- err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.stopCh:
			return nil
		case <-ticker.C:
			if err := b.executeRun(ctx); err != nil {
				select {
				case b.errorCh <- err:
				default:
				}
			}
		}
	}
}

func (b *Bot) executeRun(ctx context.Context) error {
	timeout := b.interval - 10*time.Second
	if timeout <= 0 {
		timeout = b.interval
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := b.orchestrator.Run(runCtx); err != nil && err != context.Canceled {
		return fmt.Errorf("cycle run failed: %w", err)
	}

	return nil
}

func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	close(b.stopCh)

	if b.shutdownFn != nil {
		if err := b.shutdownFn(); err != nil {
			return fmt.Errorf("custom shutdown failed: %w", err)
		}
	}

	return nil
}

func (b *Bot) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

func (b *Bot) Name() string {
	return b.name
}

func (b *Bot) Errors() <-chan error {
	return b.errorCh
}

func (b *Bot) markStopped() {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
}
