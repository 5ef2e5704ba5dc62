package temscript

import (
	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
	"github.com/wippyai/temscript/scripting"
)

// Acquisition selects acquisition devices and acquires images from them.
type Acquisition struct {
	object[scripting.Acquisition]
}

func wrapAcquisition(s *Session, iface scripting.Acquisition) (*Acquisition, error) {
	w := &Acquisition{}
	if err := bind(w, &w.object, s, KindAcquisition, iface, nil); err != nil {
		return nil, err
	}
	return w, nil
}

// Cameras returns the installed CCD cameras.
func (a *Acquisition) Cameras() ([]*CCDCamera, error) {
	var out []*CCDCamera
	err := a.with(errors.PhaseGet, func(iface scripting.Acquisition) error {
		coll, hr := iface.GetCameras()
		if hr.Failed() {
			return a.fail(errors.PhaseGet, hr, "Cameras")
		}
		cams, err := marshal.Drain(scripting.Collection[scripting.CCDCamera](coll), func(c scripting.CCDCamera) (*CCDCamera, error) {
			return wrapCCDCamera(a.session(), c)
		})
		if err != nil {
			return a.annotate(err, "Cameras")
		}
		out = cams
		return nil
	})
	return out, err
}

// Detectors returns the installed STEM detectors. All of them share one
// STEMAcqParams wrapper which stays alive as long as any detector does.
func (a *Acquisition) Detectors() ([]*STEMDetector, error) {
	var out []*STEMDetector
	err := a.with(errors.PhaseGet, func(iface scripting.Acquisition) error {
		coll, hr := iface.GetDetectors()
		if hr.Failed() {
			return a.fail(errors.PhaseGet, hr, "Detectors")
		}
		pw, err := a.stemParams(coll)
		if err != nil {
			coll.Release()
			return err
		}
		defer pw.Close()

		dets, err := marshal.Drain(scripting.Collection[scripting.STEMDetector](coll), func(d scripting.STEMDetector) (*STEMDetector, error) {
			return wrapSTEMDetector(a.session(), d, pw)
		})
		if err != nil {
			return a.annotate(err, "Detectors")
		}
		out = dets
		return nil
	})
	return out, err
}

// StemAcqParams returns the acquisition parameters shared by all STEM
// detectors.
func (a *Acquisition) StemAcqParams() (*STEMAcqParams, error) {
	var out *STEMAcqParams
	err := a.with(errors.PhaseGet, func(iface scripting.Acquisition) error {
		coll, hr := iface.GetDetectors()
		if hr.Failed() {
			return a.fail(errors.PhaseGet, hr, "Detectors")
		}
		defer coll.Release()
		pw, err := a.stemParams(coll)
		if err != nil {
			return err
		}
		out = pw
		return nil
	})
	return out, err
}

func (a *Acquisition) stemParams(coll scripting.STEMDetectors) (*STEMAcqParams, error) {
	params, hr := coll.GetAcqParams()
	if hr.Failed() {
		return nil, a.fail(errors.PhaseGet, hr, "Detectors", "AcqParams")
	}
	pw, err := wrapSTEMAcqParams(a.session(), params)
	if err != nil {
		params.Release()
		return nil, err
	}
	return pw, nil
}

// SetStemAcqParams stores p as the shared STEM acquisition parameters.
func (a *Acquisition) SetStemAcqParams(p *STEMAcqParams) error {
	if p == nil {
		return errors.TypeMismatch(errors.PhaseSet, string(KindSTEMAcqParams), "nil")
	}
	return a.with(errors.PhaseSet, func(iface scripting.Acquisition) error {
		coll, hr := iface.GetDetectors()
		if hr.Failed() {
			return a.fail(errors.PhaseSet, hr, "Detectors")
		}
		defer coll.Release()
		return p.with(errors.PhaseSet, func(params scripting.STEMAcqParams) error {
			if hr := coll.PutAcqParams(params); hr.Failed() {
				return a.fail(errors.PhaseSet, hr, "Detectors", "AcqParams")
			}
			return nil
		})
	})
}

// AddAcqDevice selects a camera or STEM detector for the next acquisition.
// Any other wrapper fails with errors.KindTypeMismatch before reaching the
// server.
func (a *Acquisition) AddAcqDevice(dev Wrapper) error {
	return a.device("AddAcqDevice", dev, scripting.Acquisition.AddAcqDevice)
}

// RemoveAcqDevice deselects a camera or STEM detector.
func (a *Acquisition) RemoveAcqDevice(dev Wrapper) error {
	return a.device("RemoveAcqDevice", dev, scripting.Acquisition.RemoveAcqDevice)
}

func (a *Acquisition) device(method string, dev Wrapper, fn func(scripting.Acquisition, com.Unknown) com.HRESULT) error {
	var withDevice func(func(com.Unknown) error) error
	switch d := dev.(type) {
	case *CCDCamera:
		if d != nil {
			withDevice = func(f func(com.Unknown) error) error {
				return d.with(errors.PhaseCall, func(c scripting.CCDCamera) error { return f(c) })
			}
		}
	case *STEMDetector:
		if d != nil {
			withDevice = func(f func(com.Unknown) error) error {
				return d.with(errors.PhaseCall, func(s scripting.STEMDetector) error { return f(s) })
			}
		}
	}
	if withDevice == nil {
		e := errors.TypeMismatch(errors.PhaseCall, "CCDCamera or STEMDetector", describe(dev))
		e.Object = string(a.kind)
		e.Path = []string{method}
		return e
	}

	return a.with(errors.PhaseCall, func(iface scripting.Acquisition) error {
		return withDevice(func(u com.Unknown) error {
			if hr := fn(iface, u); hr.Failed() {
				return a.fail(errors.PhaseCall, hr, method)
			}
			return nil
		})
	})
}

// AddAcqDeviceByName selects a device by its name.
func (a *Acquisition) AddAcqDeviceByName(name string) error {
	return a.byName("AddAcqDeviceByName", name, scripting.Acquisition.AddAcqDeviceByName)
}

func (a *Acquisition) RemoveAcqDeviceByName(name string) error {
	return a.byName("RemoveAcqDeviceByName", name, scripting.Acquisition.RemoveAcqDeviceByName)
}

func (a *Acquisition) byName(method, name string, fn func(scripting.Acquisition, com.BSTR) com.HRESULT) error {
	return a.with(errors.PhaseCall, func(iface scripting.Acquisition) error {
		b := com.SysAllocString(name)
		defer com.SysFreeString(b)
		if hr := fn(iface, b); hr.Failed() {
			return a.fail(errors.PhaseCall, hr, method, name)
		}
		return nil
	})
}

func (a *Acquisition) RemoveAllAcqDevices() error {
	return invoke(&a.object, "RemoveAllAcqDevices", scripting.Acquisition.RemoveAllAcqDevices)
}

// AcquireImages acquires one image per selected device.
func (a *Acquisition) AcquireImages() ([]*AcqImage, error) {
	var out []*AcqImage
	err := a.with(errors.PhaseCall, func(iface scripting.Acquisition) error {
		coll, hr := iface.AcquireImages()
		if hr.Failed() {
			return a.fail(errors.PhaseCall, hr, "AcquireImages")
		}
		images, err := marshal.Drain(scripting.Collection[scripting.AcqImage](coll), func(img scripting.AcqImage) (*AcqImage, error) {
			return wrapAcqImage(a.session(), img)
		})
		if err != nil {
			return a.annotate(err, "AcquireImages")
		}
		out = images
		return nil
	})
	return out, err
}

type CCDCamera struct {
	object[scripting.CCDCamera]
}

func wrapCCDCamera(s *Session, iface scripting.CCDCamera) (*CCDCamera, error) {
	w := &CCDCamera{}
	if err := bind(w, &w.object, s, KindCCDCamera, iface, nil); err != nil {
		return nil, err
	}
	return w, nil
}

func (c *CCDCamera) Info() (*CCDCameraInfo, error) {
	return getChild(&c.object, "Info", scripting.CCDCamera.GetInfo, wrapCCDCameraInfo)
}

func (c *CCDCamera) AcqParams() (*CCDAcqParams, error) {
	return getChild(&c.object, "AcqParams", scripting.CCDCamera.GetAcqParams, wrapCCDAcqParams)
}

// SetAcqParams stores p as the camera's acquisition parameters.
func (c *CCDCamera) SetAcqParams(p *CCDAcqParams) error {
	if p == nil {
		return errors.TypeMismatch(errors.PhaseSet, string(KindCCDAcqParams), "nil")
	}
	return c.with(errors.PhaseSet, func(iface scripting.CCDCamera) error {
		return p.with(errors.PhaseSet, func(params scripting.CCDAcqParams) error {
			if hr := iface.PutAcqParams(params); hr.Failed() {
				return c.fail(errors.PhaseSet, hr, "AcqParams")
			}
			return nil
		})
	})
}

type CCDCameraInfo struct {
	object[scripting.CCDCameraInfo]
}

var ccdCameraInfoProps = properties[scripting.CCDCameraInfo]{
	"Name":         stringProp(scripting.CCDCameraInfo.GetName),
	"Width":        intProp(scripting.CCDCameraInfo.GetWidth, nil),
	"Height":       intProp(scripting.CCDCameraInfo.GetHeight, nil),
	"PixelSize":    vecProp(scripting.CCDCameraInfo.GetPixelSize, nil),
	"Binnings":     arrayProp(scripting.CCDCameraInfo.GetBinnings),
	"ShutterModes": arrayProp(scripting.CCDCameraInfo.GetShutterModes),
	"ShutterMode":  enumProp(scripting.CCDCameraInfo.GetShutterMode, scripting.CCDCameraInfo.PutShutterMode),
}

func wrapCCDCameraInfo(s *Session, iface scripting.CCDCameraInfo) (*CCDCameraInfo, error) {
	w := &CCDCameraInfo{}
	if err := bind(w, &w.object, s, KindCCDCameraInfo, iface, ccdCameraInfoProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (i *CCDCameraInfo) Name() (string, error) {
	return getString(&i.object, "Name", scripting.CCDCameraInfo.GetName)
}

func (i *CCDCameraInfo) Width() (int32, error) {
	return getValue(&i.object, "Width", scripting.CCDCameraInfo.GetWidth)
}

func (i *CCDCameraInfo) Height() (int32, error) {
	return getValue(&i.object, "Height", scripting.CCDCameraInfo.GetHeight)
}

// PixelSize is in meters.
func (i *CCDCameraInfo) PixelSize() (Vec2, error) {
	return getVec(&i.object, "PixelSize", scripting.CCDCameraInfo.GetPixelSize)
}

func (i *CCDCameraInfo) Binnings() ([]int32, error) {
	a, err := getArray(&i.object, "Binnings", scripting.CCDCameraInfo.GetBinnings)
	if err != nil {
		return nil, err
	}
	return int32s(a), nil
}

func (i *CCDCameraInfo) ShutterModes() ([]scripting.AcqShutterMode, error) {
	a, err := getArray(&i.object, "ShutterModes", scripting.CCDCameraInfo.GetShutterModes)
	if err != nil {
		return nil, err
	}
	raw := int32s(a)
	out := make([]scripting.AcqShutterMode, len(raw))
	for k, v := range raw {
		out[k] = scripting.AcqShutterMode(v)
	}
	return out, nil
}

func (i *CCDCameraInfo) ShutterMode() (scripting.AcqShutterMode, error) {
	return getValue(&i.object, "ShutterMode", scripting.CCDCameraInfo.GetShutterMode)
}

func (i *CCDCameraInfo) SetShutterMode(v scripting.AcqShutterMode) error {
	return putValue(&i.object, "ShutterMode", scripting.CCDCameraInfo.PutShutterMode, v)
}

func int32s(a *marshal.Array) []int32 {
	if v, ok := marshal.Values[int32](a); ok {
		return v
	}
	f := a.Float64s()
	out := make([]int32, len(f))
	for k, v := range f {
		out[k] = int32(v)
	}
	return out
}

type CCDAcqParams struct {
	object[scripting.CCDAcqParams]
}

var ccdAcqParamsProps = properties[scripting.CCDAcqParams]{
	"ImageSize":               enumProp(scripting.CCDAcqParams.GetImageSize, scripting.CCDAcqParams.PutImageSize),
	"ExposureTime":            floatProp(scripting.CCDAcqParams.GetExposureTime, scripting.CCDAcqParams.PutExposureTime),
	"Binning":                 intProp(scripting.CCDAcqParams.GetBinning, scripting.CCDAcqParams.PutBinning),
	"ImageCorrection":         enumProp(scripting.CCDAcqParams.GetImageCorrection, scripting.CCDAcqParams.PutImageCorrection),
	"ExposureMode":            enumProp(scripting.CCDAcqParams.GetExposureMode, scripting.CCDAcqParams.PutExposureMode),
	"MinPreExposureTime":      floatProp(scripting.CCDAcqParams.GetMinPreExposureTime, nil),
	"MaxPreExposureTime":      floatProp(scripting.CCDAcqParams.GetMaxPreExposureTime, nil),
	"PreExposureTime":         floatProp(scripting.CCDAcqParams.GetPreExposureTime, scripting.CCDAcqParams.PutPreExposureTime),
	"MinPreExposurePauseTime": floatProp(scripting.CCDAcqParams.GetMinPreExposurePauseTime, nil),
	"MaxPreExposurePauseTime": floatProp(scripting.CCDAcqParams.GetMaxPreExposurePauseTime, nil),
	"PreExposurePauseTime":    floatProp(scripting.CCDAcqParams.GetPreExposurePauseTime, scripting.CCDAcqParams.PutPreExposurePauseTime),
}

func wrapCCDAcqParams(s *Session, iface scripting.CCDAcqParams) (*CCDAcqParams, error) {
	w := &CCDAcqParams{}
	if err := bind(w, &w.object, s, KindCCDAcqParams, iface, ccdAcqParamsProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (p *CCDAcqParams) ImageSize() (scripting.AcqImageSize, error) {
	return getValue(&p.object, "ImageSize", scripting.CCDAcqParams.GetImageSize)
}

func (p *CCDAcqParams) SetImageSize(v scripting.AcqImageSize) error {
	return putValue(&p.object, "ImageSize", scripting.CCDAcqParams.PutImageSize, v)
}

// ExposureTime is in seconds.
func (p *CCDAcqParams) ExposureTime() (float64, error) {
	return getValue(&p.object, "ExposureTime", scripting.CCDAcqParams.GetExposureTime)
}

func (p *CCDAcqParams) SetExposureTime(v float64) error {
	return putValue(&p.object, "ExposureTime", scripting.CCDAcqParams.PutExposureTime, v)
}

func (p *CCDAcqParams) Binning() (int32, error) {
	return getValue(&p.object, "Binning", scripting.CCDAcqParams.GetBinning)
}

// SetBinning changes the binning. The server rescales the exposure time.
func (p *CCDAcqParams) SetBinning(v int32) error {
	return putValue(&p.object, "Binning", scripting.CCDAcqParams.PutBinning, v)
}

func (p *CCDAcqParams) ImageCorrection() (scripting.AcqImageCorrection, error) {
	return getValue(&p.object, "ImageCorrection", scripting.CCDAcqParams.GetImageCorrection)
}

func (p *CCDAcqParams) SetImageCorrection(v scripting.AcqImageCorrection) error {
	return putValue(&p.object, "ImageCorrection", scripting.CCDAcqParams.PutImageCorrection, v)
}

func (p *CCDAcqParams) ExposureMode() (scripting.AcqExposureMode, error) {
	return getValue(&p.object, "ExposureMode", scripting.CCDAcqParams.GetExposureMode)
}

func (p *CCDAcqParams) SetExposureMode(v scripting.AcqExposureMode) error {
	return putValue(&p.object, "ExposureMode", scripting.CCDAcqParams.PutExposureMode, v)
}

func (p *CCDAcqParams) MinPreExposureTime() (float64, error) {
	return getValue(&p.object, "MinPreExposureTime", scripting.CCDAcqParams.GetMinPreExposureTime)
}

func (p *CCDAcqParams) MaxPreExposureTime() (float64, error) {
	return getValue(&p.object, "MaxPreExposureTime", scripting.CCDAcqParams.GetMaxPreExposureTime)
}

func (p *CCDAcqParams) PreExposureTime() (float64, error) {
	return getValue(&p.object, "PreExposureTime", scripting.CCDAcqParams.GetPreExposureTime)
}

func (p *CCDAcqParams) SetPreExposureTime(v float64) error {
	return putValue(&p.object, "PreExposureTime", scripting.CCDAcqParams.PutPreExposureTime, v)
}

func (p *CCDAcqParams) MinPreExposurePauseTime() (float64, error) {
	return getValue(&p.object, "MinPreExposurePauseTime", scripting.CCDAcqParams.GetMinPreExposurePauseTime)
}

func (p *CCDAcqParams) MaxPreExposurePauseTime() (float64, error) {
	return getValue(&p.object, "MaxPreExposurePauseTime", scripting.CCDAcqParams.GetMaxPreExposurePauseTime)
}

func (p *CCDAcqParams) PreExposurePauseTime() (float64, error) {
	return getValue(&p.object, "PreExposurePauseTime", scripting.CCDAcqParams.GetPreExposurePauseTime)
}

func (p *CCDAcqParams) SetPreExposurePauseTime(v float64) error {
	return putValue(&p.object, "PreExposurePauseTime", scripting.CCDAcqParams.PutPreExposurePauseTime, v)
}

// STEMDetector keeps the shared STEMAcqParams alive while it is bound.
type STEMDetector struct {
	object[scripting.STEMDetector]
	params *STEMAcqParams
}

func wrapSTEMDetector(s *Session, iface scripting.STEMDetector, params *STEMAcqParams) (*STEMDetector, error) {
	w := &STEMDetector{params: params}
	if err := bind(w, &w.object, s, KindSTEMDetector, iface, nil, params); err != nil {
		return nil, err
	}
	return w, nil
}

func (d *STEMDetector) Info() (*STEMDetectorInfo, error) {
	return getChild(&d.object, "Info", scripting.STEMDetector.GetInfo, wrapSTEMDetectorInfo)
}

// AcqParams returns the shared acquisition parameters with an extra
// reference the caller must Close.
func (d *STEMDetector) AcqParams() (*STEMAcqParams, error) {
	err := d.with(errors.PhaseGet, func(scripting.STEMDetector) error {
		d.params.Retain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d.params, nil
}

type STEMDetectorInfo struct {
	object[scripting.STEMDetectorInfo]
}

var stemDetectorInfoProps = properties[scripting.STEMDetectorInfo]{
	"Name":       stringProp(scripting.STEMDetectorInfo.GetName),
	"Brightness": floatProp(scripting.STEMDetectorInfo.GetBrightness, scripting.STEMDetectorInfo.PutBrightness),
	"Contrast":   floatProp(scripting.STEMDetectorInfo.GetContrast, scripting.STEMDetectorInfo.PutContrast),
	"Binnings":   arrayProp(scripting.STEMDetectorInfo.GetBinnings),
}

func wrapSTEMDetectorInfo(s *Session, iface scripting.STEMDetectorInfo) (*STEMDetectorInfo, error) {
	w := &STEMDetectorInfo{}
	if err := bind(w, &w.object, s, KindSTEMDetectorInfo, iface, stemDetectorInfoProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (i *STEMDetectorInfo) Name() (string, error) {
	return getString(&i.object, "Name", scripting.STEMDetectorInfo.GetName)
}

func (i *STEMDetectorInfo) Brightness() (float64, error) {
	return getValue(&i.object, "Brightness", scripting.STEMDetectorInfo.GetBrightness)
}

func (i *STEMDetectorInfo) SetBrightness(v float64) error {
	return putValue(&i.object, "Brightness", scripting.STEMDetectorInfo.PutBrightness, v)
}

func (i *STEMDetectorInfo) Contrast() (float64, error) {
	return getValue(&i.object, "Contrast", scripting.STEMDetectorInfo.GetContrast)
}

func (i *STEMDetectorInfo) SetContrast(v float64) error {
	return putValue(&i.object, "Contrast", scripting.STEMDetectorInfo.PutContrast, v)
}

func (i *STEMDetectorInfo) Binnings() ([]int32, error) {
	a, err := getArray(&i.object, "Binnings", scripting.STEMDetectorInfo.GetBinnings)
	if err != nil {
		return nil, err
	}
	return int32s(a), nil
}

type STEMAcqParams struct {
	object[scripting.STEMAcqParams]
}

var stemAcqParamsProps = properties[scripting.STEMAcqParams]{
	"ImageSize": enumProp(scripting.STEMAcqParams.GetImageSize, scripting.STEMAcqParams.PutImageSize),
	"DwellTime": floatProp(scripting.STEMAcqParams.GetDwellTime, scripting.STEMAcqParams.PutDwellTime),
	"Binning":   intProp(scripting.STEMAcqParams.GetBinning, scripting.STEMAcqParams.PutBinning),
}

func wrapSTEMAcqParams(s *Session, iface scripting.STEMAcqParams) (*STEMAcqParams, error) {
	w := &STEMAcqParams{}
	if err := bind(w, &w.object, s, KindSTEMAcqParams, iface, stemAcqParamsProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (p *STEMAcqParams) ImageSize() (scripting.AcqImageSize, error) {
	return getValue(&p.object, "ImageSize", scripting.STEMAcqParams.GetImageSize)
}

func (p *STEMAcqParams) SetImageSize(v scripting.AcqImageSize) error {
	return putValue(&p.object, "ImageSize", scripting.STEMAcqParams.PutImageSize, v)
}

// DwellTime is in seconds per pixel.
func (p *STEMAcqParams) DwellTime() (float64, error) {
	return getValue(&p.object, "DwellTime", scripting.STEMAcqParams.GetDwellTime)
}

func (p *STEMAcqParams) SetDwellTime(v float64) error {
	return putValue(&p.object, "DwellTime", scripting.STEMAcqParams.PutDwellTime, v)
}

func (p *STEMAcqParams) Binning() (int32, error) {
	return getValue(&p.object, "Binning", scripting.STEMAcqParams.GetBinning)
}

func (p *STEMAcqParams) SetBinning(v int32) error {
	return putValue(&p.object, "Binning", scripting.STEMAcqParams.PutBinning, v)
}

// AcqImage is one acquired image.
type AcqImage struct {
	object[scripting.AcqImage]
}

var acqImageProps = properties[scripting.AcqImage]{
	"Name":        stringProp(scripting.AcqImage.GetName),
	"Width":       intProp(scripting.AcqImage.GetWidth, nil),
	"Height":      intProp(scripting.AcqImage.GetHeight, nil),
	"Depth":       intProp(scripting.AcqImage.GetDepth, nil),
	"AsSafeArray": arrayProp(scripting.AcqImage.GetAsSafeArray),
}

func wrapAcqImage(s *Session, iface scripting.AcqImage) (*AcqImage, error) {
	w := &AcqImage{}
	if err := bind(w, &w.object, s, KindAcqImage, iface, acqImageProps); err != nil {
		return nil, err
	}
	return w, nil
}

func (i *AcqImage) Name() (string, error) {
	return getString(&i.object, "Name", scripting.AcqImage.GetName)
}

func (i *AcqImage) Width() (int32, error) {
	return getValue(&i.object, "Width", scripting.AcqImage.GetWidth)
}

func (i *AcqImage) Height() (int32, error) {
	return getValue(&i.object, "Height", scripting.AcqImage.GetHeight)
}

// Depth is the bit depth of the pixel values.
func (i *AcqImage) Depth() (int32, error) {
	return getValue(&i.object, "Depth", scripting.AcqImage.GetDepth)
}

// Array copies the pixel data. Shape follows the server's dimension order.
func (i *AcqImage) Array() (*marshal.Array, error) {
	return getArray(&i.object, "AsSafeArray", scripting.AcqImage.GetAsSafeArray)
}
