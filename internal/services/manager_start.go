package services

import (
	"context"
	"errors"
)

// Start runs the HTTP server in the background until bgCtx is canceled
// or Shutdown is called.
func (m *Manager) Start(bgCtx context.Context) error {
	if m.server == nil {
		return errors.New("manager not initialized")
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.server.Start(bgCtx); err != nil {
			m.logger.Error("HTTP server stopped with error", "error", err)
			select {
			case m.errCh <- err:
			default:
			}
		}
	}()
	return nil
}
