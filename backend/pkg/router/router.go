package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"garden-hub/backend/pkg/utils"
)

// ParameterIn is the location of an HTTP operation parameter.
type ParameterIn string

const (
	ParameterInPath   ParameterIn = "path"
	ParameterInQuery  ParameterIn = "query"
	ParameterInHeader ParameterIn = "header"
)

// ParameterSpec documents one parameter of a route.
type ParameterSpec struct {
	In          ParameterIn
	Description string
	Required    bool
	// Type is a pointer to a zero value of the parameter's Go type, e.g. new(string).
	Type any
}

// RequestBodySpec documents the request body of a route.
type RequestBodySpec struct {
	// Type is an example value of the request body type.
	Type     any
	Examples map[string]any
}

// ResponseSpec documents one response of a route.
type ResponseSpec struct {
	Description string
	// Type is an example value of the response body type.
	Type     any
	Examples map[string]any
}

// RouteSpec describes a single HTTP operation.
type RouteSpec struct {
	OperationID string
	Summary     string
	Description string
	Group       string
	Deprecated  string
	Handler     http.HandlerFunc
	RequestType *RequestBodySpec
	Parameters  map[string]ParameterSpec
	Responses   map[int]ResponseSpec

	method   string
	fullPath string
}

// RouteBuilder registers validated routes on a chi mux and keeps their
// metadata for OpenAPI document assembly.
type RouteBuilder struct {
	l            *slog.Logger
	mux          *chi.Mux
	operationIDs map[string]struct{}
	routes       []*RouteSpec

	title   string
	version string
}

// NewRouteBuilder creates a new route builder.
func NewRouteBuilder(l *slog.Logger, title, version string) (*RouteBuilder, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}

	return &RouteBuilder{
		l:            l.With(slog.String("component", "route-builder")),
		mux:          chi.NewRouter(),
		operationIDs: make(map[string]struct{}),
		title:        title,
		version:      version,
	}, nil
}

// Use appends middleware to the underlying mux. Must be called before any route is registered.
func (rb *RouteBuilder) Use(middlewares ...func(http.Handler) http.Handler) {
	rb.mux.Use(middlewares...)
}

// Router returns the underlying HTTP handler.
func (rb *RouteBuilder) Router() http.Handler {
	return rb.mux
}

// Routes returns the registered route metadata.
func (rb *RouteBuilder) Routes() []*RouteSpec {
	return rb.routes
}

func (rb *RouteBuilder) register(method, path string, spec RouteSpec) error {
	spec.method = method
	spec.fullPath = path

	if err := validateRouteSpec(spec); err != nil {
		return fmt.Errorf("invalid route spec for %s %s: %w", method, path, err)
	}

	if _, exists := rb.operationIDs[spec.OperationID]; exists {
		return fmt.Errorf("duplicate operationID: %s", spec.OperationID)
	}

	if err := validateParameters(spec); err != nil {
		return fmt.Errorf("invalid parameters for %s %s: %w", method, path, err)
	}

	rb.mux.MethodFunc(method, path, spec.Handler)

	rb.operationIDs[spec.OperationID] = struct{}{}
	rb.routes = append(rb.routes, &spec)

	rb.l.Info("Registered route", slog.String("operationID", spec.OperationID), slog.String("method", method), slog.String("path", path), slog.String("group", spec.Group))

	return nil
}

// Get registers a GET route.
func (rb *RouteBuilder) Get(path string, spec RouteSpec) error {
	return rb.register(http.MethodGet, path, spec)
}

// Post registers a POST route.
func (rb *RouteBuilder) Post(path string, spec RouteSpec) error {
	return rb.register(http.MethodPost, path, spec)
}

// Put registers a PUT route.
func (rb *RouteBuilder) Put(path string, spec RouteSpec) error {
	return rb.register(http.MethodPut, path, spec)
}

// Delete registers a DELETE route.
func (rb *RouteBuilder) Delete(path string, spec RouteSpec) error {
	return rb.register(http.MethodDelete, path, spec)
}

// MustGet registers a GET route and terminates the program if an error occurs.
func (rb *RouteBuilder) MustGet(path string, spec RouteSpec) {
	rb.must(rb.Get(path, spec), spec)
}

// MustPost registers a POST route and terminates the program if an error occurs.
func (rb *RouteBuilder) MustPost(path string, spec RouteSpec) {
	rb.must(rb.Post(path, spec), spec)
}

// MustPut registers a PUT route and terminates the program if an error occurs.
func (rb *RouteBuilder) MustPut(path string, spec RouteSpec) {
	rb.must(rb.Put(path, spec), spec)
}

// MustDelete registers a DELETE route and terminates the program if an error occurs.
func (rb *RouteBuilder) MustDelete(path string, spec RouteSpec) {
	rb.must(rb.Delete(path, spec), spec)
}

func (rb *RouteBuilder) must(err error, spec RouteSpec) {
	if err != nil {
		rb.l.Error("Failed to register route", slog.String("operationID", spec.OperationID), utils.ErrAttr(err))
		os.Exit(1)
	}
}
