package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/microscope"
)

// Config configures the HTTP facade.
type Config struct {
	// AllowColumnValvesOpen lets clients open the column valves. Closing is
	// always allowed.
	AllowColumnValvesOpen bool
	// GzipMinSize is the body size above which responses are compressed
	// for clients accepting gzip. Negative disables compression.
	GzipMinSize int
	// MaxBodySize caps PUT bodies.
	MaxBodySize int64

	Tracing bool
	Metrics bool
	// Providers default to the global OTel providers.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Propagator     propagation.TextMapPropagator
}

// DefaultConfig returns the defaults used by the temscript command.
func DefaultConfig() Config {
	return Config{
		AllowColumnValvesOpen: true,
		GzipMinSize:           256,
		MaxBodySize:           4096,
		Tracing:               true,
		Metrics:               true,
	}
}

// Server serves a Microscope over HTTP. Requests are served one at a time
// against the instrument.
type Server struct {
	cfg     Config
	m       *microscope.Microscope
	mu      sync.Mutex
	mem     memory.Allocator
	handler http.Handler
}

// New creates a server for m. The caller keeps ownership of m.
func New(m *microscope.Microscope, cfg Config) *Server {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	s := &Server{cfg: cfg, m: m, mem: memory.NewGoAllocator()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/{endpoint}", s.handle(s.get))
	mux.HandleFunc("GET /v1/{endpoint}/{name}", s.handle(s.getParam))
	mux.HandleFunc("PUT /v1/{endpoint}", s.handle(s.put))
	mux.HandleFunc("PUT /v1/{endpoint}/{name}", s.handle(s.putParam))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errors.NotFound(errors.PhaseServe, "endpoint", r.URL.Path))
	})

	s.handler = newInstrumentation(cfg).wrap(mux)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			Logger().Warn("shutdown", zap.Error(err))
		}
	}()

	Logger().Info("serving microscope", zap.String("addr", ln.Addr().String()))
	err := srv.Serve(ln)
	if stderrors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) (any, error)

// handle runs fn with exclusive access to the microscope and encodes its
// result: nil as 204, images as packed arrays or an Arrow stream, anything
// else as JSON.
func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		v, err := fn(w, r)
		s.mu.Unlock()
		if err != nil {
			writeError(w, r, err)
			return
		}
		if v == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if imgs, ok := v.(images); ok {
			if accepts(r.Header.Get("Accept"), ContentTypeArrow) {
				s.writeArrow(w, r, imgs)
				return
			}
			packed, err := packImages(imgs)
			if err != nil {
				writeError(w, r, err)
				return
			}
			v = packed
		}

		body, err := encodeJSON(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeBody(w, r, ContentTypeJSON, body, s.cfg.GzipMinSize)
	}
}

func (s *Server) writeArrow(w http.ResponseWriter, r *http.Request, imgs images) {
	var buf bytes.Buffer
	if err := writeImages(&buf, s.mem, imgs); err != nil {
		writeError(w, r, err)
		return
	}
	writeBody(w, r, ContentTypeArrow, buf.Bytes(), s.cfg.GzipMinSize)
}

func (s *Server) get(_ http.ResponseWriter, r *http.Request) (any, error) {
	endpoint := r.PathValue("endpoint")
	switch endpoint {
	case "acquire":
		imgs, err := s.m.Acquire(r.URL.Query()["detectors"]...)
		if err != nil {
			return nil, err
		}
		return images(imgs), nil
	}
	fn, ok := getters[endpoint]
	if !ok {
		return nil, errors.NotFound(errors.PhaseServe, "endpoint", endpoint)
	}
	return fn(s.m)
}

func (s *Server) getParam(_ http.ResponseWriter, r *http.Request) (any, error) {
	endpoint := r.PathValue("endpoint")
	fn, ok := paramGetters[endpoint]
	if !ok {
		return nil, errors.NotFound(errors.PhaseServe, "endpoint", endpoint)
	}
	return fn(s.m, url.PathEscape(r.PathValue("name")))
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) (any, error) {
	endpoint := r.PathValue("endpoint")
	var body any
	if err := s.decode(w, r, &body); err != nil {
		return nil, err
	}
	query := r.URL.Query()

	switch endpoint {
	case "stage_position":
		return nil, s.putStagePosition(body, query)
	case "stem_acquisition_param":
		values, err := params(body)
		if err != nil {
			return nil, err
		}
		return rest(s.m.SetSTEMAcquisitionParam(values, ignoreErrors(query)))
	case "normalize":
		mode, ok := body.(string)
		if !ok {
			return nil, errors.InvalidInput(errors.PhaseServe, []string{"normalize"}, body, "expected a mode name")
		}
		return nil, s.m.Normalize(mode)
	case "column_valves_open":
		open := truthy(body)
		if open && !s.cfg.AllowColumnValvesOpen {
			return nil, errors.New(errors.PhaseServe, errors.KindUnsupported).
				Path("column_valves_open").
				Detail("Opening of column valves is prohibited.").
				Build()
		}
		return nil, s.m.SetColumnValvesOpen(open)
	}

	fn, ok := setters[endpoint]
	if !ok {
		return nil, errors.NotFound(errors.PhaseServe, "endpoint", endpoint)
	}
	return nil, fn(s.m, body)
}

func (s *Server) putParam(w http.ResponseWriter, r *http.Request) (any, error) {
	endpoint := r.PathValue("endpoint")
	name := url.PathEscape(r.PathValue("name"))
	var body any
	if err := s.decode(w, r, &body); err != nil {
		return nil, err
	}
	values, err := params(body)
	if err != nil {
		return nil, err
	}
	ignore := ignoreErrors(r.URL.Query())

	switch endpoint {
	case "camera_param":
		return rest(s.m.SetCameraParam(name, values, ignore))
	case "stem_detector_param":
		return rest(s.m.SetSTEMDetectorParam(name, values, ignore))
	case "detector_param":
		return rest(s.m.SetDetectorParam(name, values))
	}
	return nil, errors.NotFound(errors.PhaseServe, "endpoint", endpoint)
}

func (s *Server) putStagePosition(body any, query url.Values) error {
	in, ok := body.(map[string]any)
	if !ok {
		return errors.InvalidInput(errors.PhaseServe, []string{"stage_position"}, body, "expected an object")
	}
	pos := make(map[string]any, len(microscope.StageAxes)+1)
	for _, axis := range microscope.StageAxes {
		if v, ok := in[axis]; ok {
			pos[axis] = v
		}
	}
	if sp := query.Get("speed"); sp != "" {
		speed, err := strconv.ParseFloat(sp, 64)
		if err != nil {
			return errors.InvalidInput(errors.PhaseServe, []string{"speed"}, sp, "expected a number")
		}
		pos["speed"] = speed
	}
	return s.m.SetStagePosition(pos, query.Get("method"))
}

// decode reads at most MaxBodySize bytes of JSON.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.ContentLength > s.cfg.MaxBodySize {
		return tooLarge(s.cfg.MaxBodySize)
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize))
	if err != nil {
		var mbe *http.MaxBytesError
		if stderrors.As(err, &mbe) {
			return tooLarge(s.cfg.MaxBodySize)
		}
		return errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "read body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "decode body")
	}
	return nil
}

func tooLarge(limit int64) error {
	return errors.New(errors.PhaseServe, errors.KindInvalidInput).
		Path("body").
		Detail("Too much content, at most %d bytes are accepted.", limit).
		Build()
}

// images marks an acquisition result for the image encoders.
type images map[string]*marshal.Array

func params(body any) (microscope.Params, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseServe, []string{"params"}, body, "expected an object")
	}
	return m, nil
}

// rest drops an empty remainder so the response becomes 204.
func rest(p microscope.Params, err error) (any, error) {
	if err != nil || len(p) == 0 {
		return nil, err
	}
	return p, nil
}

func ignoreErrors(q url.Values) bool {
	v := q.Get("ignore_errors")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

// truthy follows JSON truthiness for the column valve switch.
func truthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case nil:
		return false
	}
	return true
}

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Status uint32 `json:"status,omitempty"`
}

// writeError sends 404 for unknown endpoints and devices and 500 for every
// other failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	body := ErrorBody{Error: err.Error()}
	if kind, ok := errors.KindOf(err); ok {
		body.Kind = string(kind)
		if kind == errors.KindNotFound {
			code = http.StatusNotFound
		}
	}
	if hr, ok := errors.StatusOf(err); ok {
		body.Status = uint32(hr)
	}

	Logger().Warn("request failed",
		zap.String("id", RequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	)

	data, _ := json.Marshal(body)
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(code)
	w.Write(data)
}
