package services

import (
	"context"
	"errors"
)

// Shutdown stops the HTTP server, waits for it to drain and closes storage.
// It returns the joined errors of every step.
func (m *Manager) Shutdown(ctx context.Context) error {
	var errs []error

	if m.server != nil {
		m.logger.Info("Stopping HTTP server...")
		if err := m.server.Stop(ctx); err != nil {
			m.logger.Error("Error shutting down HTTP server", "error", err)
			errs = append(errs, err)
		}
	}

	m.logger.Info("Waiting for background tasks to finish...")
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Background tasks finished.")
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for background tasks.")
		errs = append(errs, ctx.Err())
	}

	if m.storageFactory != nil {
		if err := m.storageFactory.Close(ctx); err != nil {
			m.logger.Error("Error closing storage factory", "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
