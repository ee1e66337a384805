package shutdown

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"skin-retoucher/internal/logger"
)

const defaultCloseTimeout = 10 * time.Second

type component struct {
	name   string
	closer io.Closer
}

// Manager cancels a shared context on SIGINT/SIGTERM and releases
// registered resources in reverse registration order.
type Manager struct {
	components []component
	logger     logger.Logger
	mu         sync.Mutex
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	timeout    time.Duration
	err        error
}

func NewManager(parent context.Context, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Manager{
		logger:  log,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		timeout: defaultCloseTimeout,
	}
}

// SetTimeout bounds how long a single Close may take.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

func (m *Manager) Register(name string, c io.Closer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, component{name: name, closer: c})
}

// Listen cancels the context on the first interrupt. The returned function
// stops listening.
func (m *Manager) Listen() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stop := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.cancel()
		case <-stop:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(stop)
		})
	}
}

// Shutdown cancels the context and closes every component once. Later calls
// return the first result.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return m.err
	default:
		close(m.done)
	}

	m.logger.Debug("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.components),
	})

	m.cancel()

	var errs []error
	for i := len(m.components) - 1; i >= 0; i-- {
		c := m.components[i]

		result := make(chan error, 1)
		go func() {
			result <- c.closer.Close()
		}()

		select {
		case err := <-result:
			if err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
			}
		case <-time.After(m.timeout):
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component": c.name,
			})
			errs = append(errs, fmt.Errorf("close %s: timed out after %s", c.name, m.timeout))
		}
	}

	m.err = errors.Join(errs...)
	m.logger.Debug("ShutdownManager", "shutdown sequence completed", nil)
	return m.err
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
