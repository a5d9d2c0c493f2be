package server

import (
	"errors"
	"fmt"
	"net/http"
)

func (s *serverImpl) initHTTPServer() {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.HTTPPort),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.HTTPReadTimeout,
		WriteTimeout: s.cfg.HTTPWriteTimeout,
		IdleTimeout:  s.cfg.HTTPIdleTimeout,
	}
}

// runHTTPServer reports nil on errChan after a graceful Stop, so that Start
// returns even when its context is still live.
func (s *serverImpl) runHTTPServer(errChan chan<- error) {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		errChan <- nil
		return
	}
	errChan <- fmt.Errorf("http server error: %w", err)
}
