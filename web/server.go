package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mww/league_insights/controller"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type Server struct {
	server *http.Server
	logger *zap.Logger
}

func NewServer(port int, ctrl controller.C, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("web")
	router := getRouter(ctrl, newRender(), logger)

	s := &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
	return s, nil
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Fatal("fatal error shutting down server", zap.Error(err))
		}
	}()

	s.logger.Info("web server is listening", zap.String("addr", s.server.Addr))
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("fatal error with server", zap.Error(err))
	}
}

func newRender() *render.Render {
	return render.New(render.Options{
		// team names often contain & and apostrophes
		UnEscapeHTML: true,
	})
}
