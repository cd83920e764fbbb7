// Package server serves rendered charts and the experiment report over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/brianbland/mlviz/pkg/visualization"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

// Response is what a handler produces on success
type Response struct {
	Body        []byte
	ContentType string
}

type Handler func(r *http.Request) (Response, error)

// Route binds a handler to a path. Paths ending in / match as a prefix.
type Route struct {
	Name   string
	Path   string
	Method Method
	Exec   Handler
}

// httpError carries an explicit status code
type httpError struct {
	code int
	err  error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error { return &httpError{code: http.StatusBadRequest, err: err} }
func upstream(err error) error   { return &httpError{code: http.StatusBadGateway, err: err} }

// Server renders charts on demand from the training service
type Server struct {
	name      string
	port      int
	client    api.Client
	catalogue algorithms.Catalogue
	options   visualization.ChartOptions
	timeout   time.Duration
	metrics   *Metrics
	registry  *prometheus.Registry
	routes    []Route
}

// NewServer creates a server with the default routes
func NewServer(name string, port int, client api.Client, catalogue algorithms.Catalogue, options visualization.ChartOptions, timeout time.Duration) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		name:      name,
		port:      port,
		client:    client,
		catalogue: catalogue,
		options:   options,
		timeout:   timeout,
		metrics:   NewMetrics(registry),
		registry:  registry,
		routes:    make([]Route, 0),
	}
	return s.Add(s.defaultRoutes()...)
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Handler returns the multiplexer with every route and /metrics mounted
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range s.routes {
		mux.HandleFunc(route.Path, s.handle(route))
	}
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) handle(route Route) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if Method(r.Method) != route.Method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if route.Path == "/" && r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		start := time.Now()
		resp, err := route.Exec(r)
		if err != nil {
			s.error(w, route, err)
			return
		}

		w.Header().Set("Content-Type", resp.ContentType)
		if _, err := w.Write(resp.Body); err != nil {
			log.Error().Err(err).Str("route", route.Name).Msg("could not write response")
		}
		log.Debug().
			Str("route", route.Name).
			Str("path", r.URL.Path).
			Float64("duration", time.Since(start).Seconds()).
			Msg("request served")
	}
}

// statusCode maps an error to the status returned to the browser
func statusCode(err error) int {
	var httpErr *httpError
	var payloadErr *visualization.PayloadError
	switch {
	case errors.As(err, &payloadErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &httpErr):
		return httpErr.code
	case errors.Is(err, algorithms.ErrUnknownAlgorithm), errors.Is(err, algorithms.ErrUnknownDataset):
		return http.StatusNotFound
	case errors.Is(err, visualization.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) error(w http.ResponseWriter, route Route, err error) {
	code := statusCode(err)
	if code == http.StatusBadGateway {
		s.metrics.Failed(route.Name)
	}
	log.Error().Err(err).Str("route", route.Name).Int("code", code).Msg("error for http request")
	http.Error(w, err.Error(), code)
}

// Run starts the server and blocks until ctx is cancelled or listening fails
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Str("server", s.name).Msg("shutting down")
		return srv.Shutdown(shutdown)
	}
}
