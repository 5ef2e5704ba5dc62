package microscope

import (
	"maps"
	"net/url"

	"go.uber.org/zap"

	"github.com/wippyai/temscript"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

// Detector types reported in CameraInfo.Type and DetectorInfo.Type.
const (
	TypeCamera       = "CAMERA"
	TypeSTEMDetector = "STEM_DETECTOR"
)

// Params is a set of detector parameters keyed by the names used on the
// wire, e.g. "exposure(s)".
type Params map[string]any

// CameraInfo describes a CCD camera. Pixel sizes are in micrometers.
type CameraInfo struct {
	Type                   string     `json:"type"`
	Height                 int32      `json:"height"`
	Width                  int32      `json:"width"`
	PixelSize              [2]float64 `json:"pixel_size(um)"`
	Binnings               []int32    `json:"binnings"`
	ShutterModes           []string   `json:"shutter_modes"`
	PreExposureLimits      [2]float64 `json:"pre_exposure_limits(s)"`
	PreExposurePauseLimits [2]float64 `json:"pre_exposure_pause_limits(s)"`
}

type DetectorInfo struct {
	Type     string  `json:"type"`
	Binnings []int32 `json:"binnings"`
}

// quoteName makes a device name safe for use in a URL path. All maps
// returned by this package are keyed by quoted names.
func quoteName(name string) string { return url.PathEscape(name) }

// Cameras describes every CCD camera keyed by quoted name.
func (m *Microscope) Cameras() (map[string]CameraInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cams, err := m.acq.Cameras()
	if err != nil {
		return nil, err
	}
	defer closeAll(cams)

	out := make(map[string]CameraInfo, len(cams))
	for _, cam := range cams {
		name, ci, err := describeCamera(cam)
		if err != nil {
			return nil, err
		}
		out[quoteName(name)] = ci
	}
	return out, nil
}

func describeCamera(cam *temscript.CCDCamera) (string, CameraInfo, error) {
	info, err := cam.Info()
	if err != nil {
		return "", CameraInfo{}, err
	}
	defer info.Close()
	param, err := cam.AcqParams()
	if err != nil {
		return "", CameraInfo{}, err
	}
	defer param.Close()

	ci := CameraInfo{Type: TypeCamera}
	name, err := info.Name()
	if err != nil {
		return "", ci, err
	}
	if ci.Height, err = info.Height(); err != nil {
		return "", ci, err
	}
	if ci.Width, err = info.Width(); err != nil {
		return "", ci, err
	}
	px, err := info.PixelSize()
	if err != nil {
		return "", ci, err
	}
	ci.PixelSize = [2]float64{px.X / 1e-6, px.Y / 1e-6}
	if ci.Binnings, err = info.Binnings(); err != nil {
		return "", ci, err
	}
	modes, err := info.ShutterModes()
	if err != nil {
		return "", ci, err
	}
	ci.ShutterModes = make([]string, len(modes))
	for i, sm := range modes {
		ci.ShutterModes[i] = sm.String()
	}
	if ci.PreExposureLimits, err = limits(param.MinPreExposureTime, param.MaxPreExposureTime); err != nil {
		return "", ci, err
	}
	if ci.PreExposurePauseLimits, err = limits(param.MinPreExposurePauseTime, param.MaxPreExposurePauseTime); err != nil {
		return "", ci, err
	}
	return name, ci, nil
}

func limits(lo, hi func() (float64, error)) ([2]float64, error) {
	a, err := lo()
	if err != nil {
		return [2]float64{}, err
	}
	b, err := hi()
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{a, b}, nil
}

// STEMDetectors describes every STEM detector keyed by quoted name.
func (m *Microscope) STEMDetectors() (map[string]DetectorInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dets, err := m.acq.Detectors()
	if err != nil {
		return nil, err
	}
	defer closeAll(dets)

	out := make(map[string]DetectorInfo, len(dets))
	for _, det := range dets {
		info, err := det.Info()
		if err != nil {
			return nil, err
		}
		name, err := info.Name()
		if err == nil {
			var bins []int32
			if bins, err = info.Binnings(); err == nil {
				out[quoteName(name)] = DetectorInfo{Type: TypeSTEMDetector, Binnings: bins}
			}
		}
		info.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Detectors merges Cameras and STEMDetectors.
//
// Deprecated: use Cameras or STEMDetectors.
func (m *Microscope) Detectors() (map[string]any, error) {
	cams, err := m.Cameras()
	if err != nil {
		return nil, err
	}
	dets, err := m.STEMDetectors()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(cams)+len(dets))
	for k, v := range cams {
		out[k] = v
	}
	for k, v := range dets {
		out[k] = v
	}
	return out, nil
}

// findCamera returns the camera with the given quoted name. The caller
// closes it.
func (m *Microscope) findCamera(name string) (*temscript.CCDCamera, error) {
	cams, err := m.acq.Cameras()
	if err != nil {
		return nil, err
	}
	return pick(cams, name, "camera", func(c *temscript.CCDCamera) (string, error) {
		info, err := c.Info()
		if err != nil {
			return "", err
		}
		defer info.Close()
		return info.Name()
	})
}

func (m *Microscope) findSTEMDetector(name string) (*temscript.STEMDetector, error) {
	dets, err := m.acq.Detectors()
	if err != nil {
		return nil, err
	}
	return pick(dets, name, "STEM detector", func(d *temscript.STEMDetector) (string, error) {
		info, err := d.Info()
		if err != nil {
			return "", err
		}
		defer info.Close()
		return info.Name()
	})
}

// pick keeps the wrapper whose quoted name matches and closes the rest.
func pick[W temscript.Wrapper](ws []W, name, what string, nameOf func(W) (string, error)) (W, error) {
	var (
		found W
		ok    bool
		err   error
	)
	for _, w := range ws {
		if ok || err != nil {
			w.Close()
			continue
		}
		var n string
		if n, err = nameOf(w); err == nil && quoteName(n) == name {
			found, ok = w, true
			continue
		}
		w.Close()
	}
	if err != nil {
		if ok {
			found.Close()
		}
		var zero W
		return zero, err
	}
	if !ok {
		return found, errors.NotFound(errors.PhaseGet, what, name)
	}
	return found, nil
}

// CameraParam returns the acquisition parameters of a camera.
func (m *Microscope) CameraParam(name string) (Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cam, err := m.findCamera(name)
	if err != nil {
		return nil, err
	}
	defer cam.Close()
	info, err := cam.Info()
	if err != nil {
		return nil, err
	}
	defer info.Close()
	p, err := cam.AcqParams()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	out := Params{}
	r := reader{out: out}
	enumValue(&r, "image_size", p.ImageSize)
	value(&r, "exposure(s)", p.ExposureTime)
	value(&r, "binning", p.Binning)
	enumValue(&r, "correction", p.ImageCorrection)
	enumValue(&r, "exposure_mode", p.ExposureMode)
	enumValue(&r, "shutter_mode", info.ShutterMode)
	value(&r, "pre_exposure(s)", p.PreExposureTime)
	value(&r, "pre_exposure_pause(s)", p.PreExposurePauseTime)
	return out, r.err
}

// SetCameraParam applies the known keys of values to a camera and returns
// the keys it did not consume. With ignoreErrors, values that cannot be
// coerced are skipped instead of failing; native failures are always
// returned.
func (m *Microscope) SetCameraParam(name string, values Params, ignoreErrors bool) (Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cam, err := m.findCamera(name)
	if err != nil {
		return nil, err
	}
	defer cam.Close()
	info, err := cam.Info()
	if err != nil {
		return nil, err
	}
	defer info.Close()
	p, err := cam.AcqParams()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	w := newWriter(values, ignoreErrors)
	setEnum(w, "image_size", imageSizes, p.SetImageSize)
	set(w, "binning", marshal.ToInt32, p.SetBinning)
	setEnum(w, "correction", imageCorrections, p.SetImageCorrection)
	setEnum(w, "exposure_mode", exposureModes, p.SetExposureMode)
	setEnum(w, "shutter_mode", shutterModes, info.SetShutterMode)
	set(w, "pre_exposure(s)", marshal.ToFloat64, p.SetPreExposureTime)
	set(w, "pre_exposure_pause(s)", marshal.ToFloat64, p.SetPreExposurePauseTime)
	// Binning rescales the exposure time, so exposure goes last.
	set(w, "exposure(s)", marshal.ToFloat64, p.SetExposureTime)
	return w.rest, w.err
}

func (m *Microscope) STEMDetectorParam(name string) (Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	det, err := m.findSTEMDetector(name)
	if err != nil {
		return nil, err
	}
	defer det.Close()
	info, err := det.Info()
	if err != nil {
		return nil, err
	}
	defer info.Close()

	out := Params{}
	r := reader{out: out}
	value(&r, "brightness", info.Brightness)
	value(&r, "contrast", info.Contrast)
	return out, r.err
}

func (m *Microscope) SetSTEMDetectorParam(name string, values Params, ignoreErrors bool) (Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	det, err := m.findSTEMDetector(name)
	if err != nil {
		return nil, err
	}
	defer det.Close()
	info, err := det.Info()
	if err != nil {
		return nil, err
	}
	defer info.Close()

	w := newWriter(values, ignoreErrors)
	set(w, "brightness", marshal.ToFloat64, info.SetBrightness)
	set(w, "contrast", marshal.ToFloat64, info.SetContrast)
	return w.rest, w.err
}

func (m *Microscope) STEMAcquisitionParam() (Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stemAcquisitionParam()
}

func (m *Microscope) stemAcquisitionParam() (Params, error) {
	p, err := m.acq.StemAcqParams()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	out := Params{}
	r := reader{out: out}
	enumValue(&r, "image_size", p.ImageSize)
	value(&r, "binning", p.Binning)
	value(&r, "dwell_time(s)", p.DwellTime)
	return out, r.err
}

func (m *Microscope) SetSTEMAcquisitionParam(values Params, ignoreErrors bool) (Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setSTEMAcquisitionParam(values, ignoreErrors)
}

func (m *Microscope) setSTEMAcquisitionParam(values Params, ignoreErrors bool) (Params, error) {
	p, err := m.acq.StemAcqParams()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	w := newWriter(values, ignoreErrors)
	setEnum(w, "image_size", imageSizes, p.SetImageSize)
	set(w, "binning", marshal.ToInt32, p.SetBinning)
	set(w, "dwell_time(s)", marshal.ToFloat64, p.SetDwellTime)
	if w.err == nil {
		// Instruments may hand out a copy of the parameters.
		w.err = m.acq.SetStemAcqParams(p)
	}
	return w.rest, w.err
}

// DetectorParam returns the parameters of a camera or, failing that, of a
// STEM detector merged with the STEM acquisition parameters.
//
// Deprecated: use CameraParam, STEMDetectorParam or STEMAcquisitionParam.
func (m *Microscope) DetectorParam(name string) (Params, error) {
	p, err := m.CameraParam(name)
	if !errors.Is(err, errors.ErrNotFound) {
		return p, err
	}
	p, err = m.STEMDetectorParam(name)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.NotFound(errors.PhaseGet, "detector", name)
	}
	if err != nil {
		return nil, err
	}
	acq, err := m.STEMAcquisitionParam()
	if err != nil {
		return nil, err
	}
	maps.Copy(p, acq)
	return p, nil
}

// SetDetectorParam sets camera or STEM detector parameters, skipping values
// that cannot be coerced. "dwelltime(s)" is accepted as an alias of
// "dwell_time(s)".
//
// Deprecated: use SetCameraParam, SetSTEMDetectorParam or
// SetSTEMAcquisitionParam.
func (m *Microscope) SetDetectorParam(name string, values Params) (Params, error) {
	rest, err := m.SetCameraParam(name, values, true)
	if !errors.Is(err, errors.ErrNotFound) {
		return rest, err
	}
	rest, err = m.SetSTEMDetectorParam(name, values, true)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.NotFound(errors.PhaseSet, "detector", name)
	}
	if err != nil {
		return nil, err
	}
	if v, ok := rest["dwelltime(s)"]; ok {
		if _, dup := rest["dwell_time(s)"]; !dup {
			delete(rest, "dwelltime(s)")
			rest["dwell_time(s)"] = v
		}
	}
	return m.SetSTEMAcquisitionParam(rest, true)
}

// Acquire selects the named devices, acquires one image per device and
// returns the images keyed by quoted name. Unknown names are skipped.
func (m *Microscope) Acquire(names ...string) (map[string]*marshal.Array, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.acq.RemoveAllAcqDevices(); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := m.acq.AddAcqDeviceByName(name); err != nil {
			logger().Debug("skipping acquisition device", zap.String("name", name), zap.Error(err))
		}
	}
	images, err := m.acq.AcquireImages()
	if err != nil {
		return nil, err
	}
	defer closeAll(images)

	out := make(map[string]*marshal.Array, len(images))
	for _, img := range images {
		name, err := img.Name()
		if err != nil {
			return nil, err
		}
		arr, err := img.Array()
		if err != nil {
			return nil, err
		}
		out[quoteName(name)] = arr
	}
	return out, nil
}

// reader collects getter results into a Params until the first error.
type reader struct {
	out Params
	err error
}

func value[V any](r *reader, key string, get func() (V, error)) {
	if r.err != nil {
		return
	}
	v, err := get()
	if err != nil {
		r.err = err
		return
	}
	r.out[key] = v
}

func enumValue[E scripting.Enum](r *reader, key string, get func() (E, error)) {
	value(r, key, func() (string, error) {
		e, err := get()
		return e.String(), err
	})
}

// writer consumes keys from a copy of the caller's values.
type writer struct {
	rest   Params
	ignore bool
	err    error
}

func newWriter(values Params, ignore bool) *writer {
	return &writer{rest: maps.Clone(values), ignore: ignore}
}

func (w *writer) take(key string) (any, bool) {
	if w.err != nil {
		return nil, false
	}
	raw, ok := w.rest[key]
	if ok {
		delete(w.rest, key)
	}
	return raw, ok
}

func (w *writer) invalid(key string, raw any, detail string) {
	if !w.ignore {
		w.err = errors.InvalidInput(errors.PhaseSet, []string{key}, raw, detail)
	}
}

func set[V any](w *writer, key string, coerce func(any) (V, bool), put func(V) error) {
	raw, ok := w.take(key)
	if !ok {
		return
	}
	v, ok := coerce(raw)
	if !ok {
		w.invalid(key, raw, "value has the wrong type")
		return
	}
	w.err = put(v)
}

func setEnum[E scripting.Enum](w *writer, key string, candidates []E, put func(E) error) {
	raw, ok := w.take(key)
	if !ok {
		return
	}
	e, err := parseEnum(raw, candidates)
	if err != nil {
		if !w.ignore {
			w.err = err
		}
		return
	}
	w.err = put(e)
}
