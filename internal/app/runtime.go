package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"wireworld/internal/persistence/catalog"
	"wireworld/internal/session"
	"wireworld/internal/transport/observer"
)

// ObservePath is where the observer websocket is served.
const ObservePath = "/observe"

// Runtime owns a session and the optional catalogue and observer endpoint
// configured alongside it.
type Runtime struct {
	Session *session.Session

	log      *log.Logger
	catalog  *catalog.Catalog
	observer *observer.Server
	server   *http.Server
	listener net.Listener
}

// Open wires a session from cfg. Close releases everything Open acquired.
func Open(cfg *Config, logger *log.Logger) (*Runtime, error) {
	rt := &Runtime{log: logger}
	opts := session.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Scale:    cfg.Scale,
		Delay:    cfg.Delay,
		Workers:  cfg.Workers,
		Snapshot: cfg.Snapshot,
		DataDir:  cfg.DataDir,
		Logger:   logger,
	}

	if cfg.Catalog != "" {
		c, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		rt.catalog = c
		opts.Catalog = c
	}

	if cfg.Observe != "" {
		ln, err := net.Listen("tcp", cfg.Observe)
		if err != nil {
			rt.Close()
			return nil, errors.Wrapf(err, "[Open] failed to listen: %+v", cfg.Observe)
		}
		rt.listener = ln
		rt.observer = observer.NewServer(logger)
		opts.Observer = rt.observer

		mux := http.NewServeMux()
		mux.Handle(ObservePath, rt.observer.Handler())
		rt.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := rt.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("observer: %v", err)
			}
		}()
		logger.Printf("observer listening on ws://%s%s", ln.Addr(), ObservePath)
	}

	sess, err := session.Open(opts)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Session = sess
	return rt, nil
}

// Start launches the session's scheduler. On failure the runtime is closed
// before the error is returned.
func (rt *Runtime) Start(ctx context.Context) error {
	if err := rt.Session.Start(ctx); err != nil {
		rt.Close()
		return err
	}
	return nil
}

// ObserverAddr is the observer's listen address, or "" when disabled.
func (rt *Runtime) ObserverAddr() string {
	if rt.listener == nil {
		return ""
	}
	return rt.listener.Addr().String()
}

// Close shuts the observer endpoint down and closes the catalogue. It does not
// save the world; call Session.Quit first. Calling Close again is a no-op.
func (rt *Runtime) Close() error {
	var first error
	if rt.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		rt.observer.Close()
		if err := rt.server.Shutdown(ctx); err != nil && first == nil {
			first = errors.Wrap(err, "[Close] observer shutdown")
		}
		cancel()
		rt.server = nil
	}
	if rt.catalog != nil {
		if err := rt.catalog.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "[Close] catalog close")
		}
		rt.catalog = nil
	}
	return first
}
