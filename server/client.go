package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/microscope"
)

// Client talks to a temscript server.
type Client struct {
	base  string
	hc    *http.Client
	arrow bool
	mem   memory.Allocator
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.hc = hc }
}

// WithArrow makes Acquire request images as an Arrow IPC stream instead of
// packed JSON arrays.
func WithArrow() ClientOption {
	return func(c *Client) { c.arrow = true }
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://tem-pc:8080".
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.InvalidInput(errors.PhaseServe, []string{"base url"}, baseURL, "expected an http or https url")
	}
	c := &Client{
		base: strings.TrimSuffix(u.String(), "/") + "/v1/",
		hc:   http.DefaultClient,
		mem:  memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get reads endpoint into out. A 204 response leaves out untouched.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, endpoint, query, nil, ContentTypeJSON)
	if err != nil || body == nil {
		return err
	}
	return decodeInto(body, out)
}

// Put writes value to endpoint. A non-empty response is decoded into out
// when out is not nil.
func (c *Client) Put(ctx context.Context, endpoint string, query url.Values, value, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "encode body")
	}
	body, err := c.do(ctx, http.MethodPut, endpoint, query, data, ContentTypeJSON)
	if err != nil || body == nil || out == nil {
		return err
	}
	return decodeInto(body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload []byte, accept string) ([]byte, error) {
	target := c.base + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Encoding", "gzip")
	if payload != nil {
		req.Header.Set("Content-Type", ContentTypeJSON)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseServe, errors.KindContract, err, "gzip response")
		}
		defer zr.Close()
		r = zr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNoContent:
		return nil, nil
	}
	return nil, remoteError(resp.StatusCode, body)
}

// remoteError rebuilds the server side error from the response body.
func remoteError(code int, body []byte) error {
	var eb ErrorBody
	if json.Unmarshal(body, &eb) != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(body))
	}
	kind := errors.Kind(eb.Kind)
	if kind == "" {
		kind = errors.KindContract
		if code == http.StatusNotFound {
			kind = errors.KindNotFound
		}
	}
	b := errors.New(errors.PhaseServe, kind).
		Path("HTTP " + strconv.Itoa(code)).
		Detail("%s", eb.Error)
	if eb.Status != 0 {
		b = b.Status(com.HRESULT(int32(eb.Status)))
	}
	return b.Build()
}

func decodeInto(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(errors.PhaseServe, errors.KindContract, err, "decode response")
	}
	return nil
}

// value is the typed form of Client.Get.
func value[V any](ctx context.Context, c *Client, endpoint string) (V, error) {
	var v V
	err := c.Get(ctx, endpoint, nil, &v)
	return v, err
}

func (c *Client) Family(ctx context.Context) (string, error) { return value[string](ctx, c, "family") }

func (c *Client) MicroscopeID(ctx context.Context) (string, error) {
	return value[string](ctx, c, "microscope_id")
}

func (c *Client) Version(ctx context.Context) (string, error) { return value[string](ctx, c, "version") }

// Voltage is the acceleration voltage in kV, zero with high tension off.
func (c *Client) Voltage(ctx context.Context) (float64, error) {
	return value[float64](ctx, c, "voltage")
}

func (c *Client) Vacuum(ctx context.Context) (microscope.VacuumState, error) {
	return value[microscope.VacuumState](ctx, c, "vacuum")
}

func (c *Client) ColumnValvesOpen(ctx context.Context) (bool, error) {
	return value[bool](ctx, c, "column_valves_open")
}

func (c *Client) SetColumnValvesOpen(ctx context.Context, open bool) error {
	return c.Put(ctx, "column_valves_open", nil, open, nil)
}

func (c *Client) StageHolder(ctx context.Context) (string, error) {
	return value[string](ctx, c, "stage_holder")
}

func (c *Client) StageStatus(ctx context.Context) (string, error) {
	return value[string](ctx, c, "stage_status")
}

func (c *Client) StagePosition(ctx context.Context) (temscript.Position, error) {
	return value[temscript.Position](ctx, c, "stage_position")
}

func (c *Client) StageLimits(ctx context.Context) (map[string][2]float64, error) {
	return value[map[string][2]float64](ctx, c, "stage_limits")
}

// SetStagePosition moves the axes in pos. An empty method means GO; speed
// is sent when positive.
func (c *Client) SetStagePosition(ctx context.Context, pos map[string]float64, method string, speed float64) error {
	q := url.Values{}
	if method != "" {
		q.Set("method", method)
	}
	if speed > 0 {
		q.Set("speed", strconv.FormatFloat(speed, 'g', -1, 64))
	}
	return c.Put(ctx, "stage_position", q, pos, nil)
}

func (c *Client) Cameras(ctx context.Context) (map[string]microscope.CameraInfo, error) {
	return value[map[string]microscope.CameraInfo](ctx, c, "cameras")
}

func (c *Client) STEMDetectors(ctx context.Context) (map[string]microscope.DetectorInfo, error) {
	return value[map[string]microscope.DetectorInfo](ctx, c, "stem_detectors")
}

// CameraParam reads the parameters of a camera by its quoted name as
// returned by Cameras.
func (c *Client) CameraParam(ctx context.Context, name string) (microscope.Params, error) {
	return value[microscope.Params](ctx, c, "camera_param/"+name)
}

// SetCameraParam writes camera parameters and returns the keys the server
// did not recognize.
func (c *Client) SetCameraParam(ctx context.Context, name string, values microscope.Params, ignoreErrors bool) (microscope.Params, error) {
	return c.setParams(ctx, "camera_param/"+name, values, ignoreErrors)
}

func (c *Client) STEMDetectorParam(ctx context.Context, name string) (microscope.Params, error) {
	return value[microscope.Params](ctx, c, "stem_detector_param/"+name)
}

func (c *Client) SetSTEMDetectorParam(ctx context.Context, name string, values microscope.Params, ignoreErrors bool) (microscope.Params, error) {
	return c.setParams(ctx, "stem_detector_param/"+name, values, ignoreErrors)
}

func (c *Client) STEMAcquisitionParam(ctx context.Context) (microscope.Params, error) {
	return value[microscope.Params](ctx, c, "stem_acquisition_param")
}

func (c *Client) SetSTEMAcquisitionParam(ctx context.Context, values microscope.Params, ignoreErrors bool) (microscope.Params, error) {
	return c.setParams(ctx, "stem_acquisition_param", values, ignoreErrors)
}

func (c *Client) setParams(ctx context.Context, endpoint string, values microscope.Params, ignoreErrors bool) (microscope.Params, error) {
	var q url.Values
	if ignoreErrors {
		q = url.Values{"ignore_errors": {"true"}}
	}
	var rest microscope.Params
	err := c.Put(ctx, endpoint, q, values, &rest)
	return rest, err
}

// Acquire takes one image per named detector.
func (c *Client) Acquire(ctx context.Context, detectors ...string) (map[string]*marshal.Array, error) {
	q := url.Values{"detectors": detectors}
	if !c.arrow {
		var packed map[string]PackedArray
		if err := c.Get(ctx, "acquire", q, &packed); err != nil {
			return nil, err
		}
		out := make(map[string]*marshal.Array, len(packed))
		for name, p := range packed {
			a, err := UnpackArray(p)
			if err != nil {
				return nil, err
			}
			out[name] = a
		}
		return out, nil
	}

	body, err := c.do(ctx, http.MethodGet, "acquire", q, nil, ContentTypeArrow)
	if err != nil {
		return nil, err
	}
	return readImages(bytes.NewReader(body), c.mem)
}

func (c *Client) ImageShift(ctx context.Context) (temscript.Vec2, error) {
	return value[temscript.Vec2](ctx, c, "image_shift")
}

func (c *Client) SetImageShift(ctx context.Context, v temscript.Vec2) error {
	return c.Put(ctx, "image_shift", nil, v, nil)
}

func (c *Client) BeamShift(ctx context.Context) (temscript.Vec2, error) {
	return value[temscript.Vec2](ctx, c, "beam_shift")
}

func (c *Client) SetBeamShift(ctx context.Context, v temscript.Vec2) error {
	return c.Put(ctx, "beam_shift", nil, v, nil)
}

func (c *Client) BeamTilt(ctx context.Context) (temscript.Vec2, error) {
	return value[temscript.Vec2](ctx, c, "beam_tilt")
}

func (c *Client) SetBeamTilt(ctx context.Context, v temscript.Vec2) error {
	return c.Put(ctx, "beam_tilt", nil, v, nil)
}

func (c *Client) Defocus(ctx context.Context) (float64, error) { return value[float64](ctx, c, "defocus") }

func (c *Client) SetDefocus(ctx context.Context, v float64) error {
	return c.Put(ctx, "defocus", nil, v, nil)
}

func (c *Client) Intensity(ctx context.Context) (float64, error) {
	return value[float64](ctx, c, "intensity")
}

func (c *Client) SetIntensity(ctx context.Context, v float64) error {
	return c.Put(ctx, "intensity", nil, v, nil)
}

func (c *Client) ProjectionMode(ctx context.Context) (string, error) {
	return value[string](ctx, c, "projection_mode")
}

func (c *Client) SetProjectionMode(ctx context.Context, mode string) error {
	return c.Put(ctx, "projection_mode", nil, mode, nil)
}

func (c *Client) MagnificationIndex(ctx context.Context) (int32, error) {
	return value[int32](ctx, c, "magnification_index")
}

func (c *Client) SetMagnificationIndex(ctx context.Context, index int32) error {
	return c.Put(ctx, "magnification_index", nil, index, nil)
}

func (c *Client) InstrumentMode(ctx context.Context) (string, error) {
	return value[string](ctx, c, "instrument_mode")
}

func (c *Client) SetInstrumentMode(ctx context.Context, mode string) error {
	return c.Put(ctx, "instrument_mode", nil, mode, nil)
}

func (c *Client) BeamBlanked(ctx context.Context) (bool, error) {
	return value[bool](ctx, c, "beam_blanked")
}

func (c *Client) SetBeamBlanked(ctx context.Context, blanked bool) error {
	return c.Put(ctx, "beam_blanked", nil, blanked, nil)
}

func (c *Client) StemAvailable(ctx context.Context) (bool, error) {
	return value[bool](ctx, c, "stem_available")
}

// Normalize normalizes lenses by mode name, e.g. "ALL" or "SPOTSIZE".
func (c *Client) Normalize(ctx context.Context, mode string) error {
	return c.Put(ctx, "normalize", nil, mode, nil)
}

func (c *Client) State(ctx context.Context) (microscope.Params, error) {
	return value[microscope.Params](ctx, c, "state")
}
