package server

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/common/constants"
)

type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// DefaultServerConfig keeps the write timeout above the per-request handler
// timeout so a timed-out handler can still write its error response.
func DefaultServerConfig(port string, requestTimeout time.Duration) ServerConfig {
	write := constants.ServerWriteTimeout
	if floor := requestTimeout + constants.ServerWriteMargin; write < floor {
		write = floor
	}
	return ServerConfig{
		Addr:              ":" + port,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      write,
		IdleTimeout:       constants.ServerIdleTimeout,
		MaxHeaderBytes:    constants.ServerMaxHeaderBytes,
	}
}

func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}
