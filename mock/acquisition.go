package mock

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/scripting"
)

type acquisition struct {
	object
}

func newAcquisition(srv *Server) *acquisition {
	o := &acquisition{}
	o.init(srv, "Acquisition", o, scripting.IIDAcquisition)
	return o
}

func (o *acquisition) GetCameras() (scripting.CCDCameras, com.HRESULT) {
	if hr := o.enter("GetCameras"); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	items := make([]scripting.CCDCamera, len(o.srv.State.Cameras))
	for i, c := range o.srv.State.Cameras {
		items[i] = newCCDCamera(o.srv, c)
	}
	return newCollection(o.srv, "CCDCameras", items), com.S_OK
}

func (o *acquisition) GetDetectors() (scripting.STEMDetectors, com.HRESULT) {
	if hr := o.enter("GetDetectors"); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	items := make([]scripting.STEMDetector, len(o.srv.State.Detectors))
	for i, d := range o.srv.State.Detectors {
		items[i] = newSTEMDetector(o.srv, d)
	}
	return newSTEMDetectors(o.srv, items), com.S_OK
}

// deviceName resolves a camera or detector object of this server.
func (o *acquisition) deviceName(device com.Unknown) (string, bool) {
	if device == nil {
		return "", false
	}
	if _, ok := owns(o.srv, device); !ok {
		return "", false
	}
	switch d := device.(type) {
	case *ccdCamera:
		return d.cam.Name, true
	case *stemDetector:
		return d.det.Name, true
	}
	return "", false
}

func (st *State) knownDevice(name string) bool {
	return st.camera(name) != nil || st.detector(name) != nil
}

func (st *State) selectDevice(name string) {
	if !slices.Contains(st.Selected, name) {
		st.Selected = append(st.Selected, name)
	}
}

func (st *State) deselectDevice(name string) com.HRESULT {
	i := slices.Index(st.Selected, name)
	if i < 0 {
		return com.E_INVALIDARG
	}
	st.Selected = slices.Delete(st.Selected, i, i+1)
	return com.S_OK
}

func (o *acquisition) AddAcqDevice(device com.Unknown) com.HRESULT {
	return invoke(&o.object, "AddAcqDevice", func(st *State) com.HRESULT {
		name, ok := o.deviceName(device)
		if !ok {
			return com.E_INVALIDARG
		}
		st.selectDevice(name)
		return com.S_OK
	})
}

func (o *acquisition) AddAcqDeviceByName(name com.BSTR) com.HRESULT {
	n := name.String()
	return invoke(&o.object, "AddAcqDeviceByName", func(st *State) com.HRESULT {
		if !st.knownDevice(n) {
			return com.E_INVALIDARG
		}
		st.selectDevice(n)
		return com.S_OK
	}, n)
}

func (o *acquisition) RemoveAcqDevice(device com.Unknown) com.HRESULT {
	return invoke(&o.object, "RemoveAcqDevice", func(st *State) com.HRESULT {
		name, ok := o.deviceName(device)
		if !ok {
			return com.E_INVALIDARG
		}
		return st.deselectDevice(name)
	})
}

func (o *acquisition) RemoveAcqDeviceByName(name com.BSTR) com.HRESULT {
	n := name.String()
	return invoke(&o.object, "RemoveAcqDeviceByName", func(st *State) com.HRESULT {
		return st.deselectDevice(n)
	}, n)
}

func (o *acquisition) RemoveAllAcqDevices() com.HRESULT {
	return invoke(&o.object, "RemoveAllAcqDevices", func(st *State) com.HRESULT {
		st.Selected = nil
		return com.S_OK
	})
}

// AcquireImages returns one 16 bit image per selected device, in selection
// order. Camera images follow the camera size, binning and image size
// settings; STEM images follow the shared STEM parameters.
func (o *acquisition) AcquireImages() (scripting.AcqImages, com.HRESULT) {
	if hr := o.enter("AcquireImages"); hr.Failed() {
		return nil, hr
	}
	defer o.srv.exit()
	st := o.srv.State
	var items []scripting.AcqImage
	for _, name := range st.Selected {
		var w, h int32
		if c := st.camera(name); c != nil {
			div := c.Params.Binning * sizeDivisor(c.Params.ImageSize)
			w, h = c.Width/div, c.Height/div
		} else if d := st.detector(name); d != nil {
			div := st.STEMParams.Binning * sizeDivisor(st.STEMParams.ImageSize)
			w, h = st.STEMImageSize/div, st.STEMImageSize/div
		} else {
			continue
		}
		items = append(items, newAcqImage(o.srv, name, w, h))
	}
	Logger().Debug("images acquired", zap.Strings("devices", st.Selected), zap.Int("count", len(items)))
	return newCollection(o.srv, "AcqImages", items), com.S_OK
}

func sizeDivisor(size scripting.AcqImageSize) int32 {
	switch size {
	case scripting.AcqImageSizeHalf:
		return 2
	case scripting.AcqImageSizeQuarter:
		return 4
	}
	return 1
}

// stemDetectors is the detector collection, which also exposes the
// acquisition parameters shared by all detectors.
type stemDetectors struct {
	collection[scripting.STEMDetector]
}

func newSTEMDetectors(srv *Server, items []scripting.STEMDetector) *stemDetectors {
	c := &stemDetectors{}
	c.initItems(srv, "STEMDetectors", c, items)
	return c
}

func (c *stemDetectors) GetAcqParams() (scripting.STEMAcqParams, com.HRESULT) {
	return child(&c.object, "GetAcqParams", func(s *Server) scripting.STEMAcqParams { return newSTEMAcqParams(s) })
}

func (c *stemDetectors) PutAcqParams(p scripting.STEMAcqParams) com.HRESULT {
	return invoke(&c.object, "PutAcqParams", func(*State) com.HRESULT {
		if _, ok := p.(*stemAcqParams); !ok {
			return com.E_INVALIDARG
		}
		if _, ok := owns(c.srv, p); !ok {
			return com.E_INVALIDARG
		}
		// Parameter objects are live views, so there is nothing to copy.
		return com.S_OK
	})
}

type acqImage struct {
	object
	name          string
	width, height int32
	pixels        []int16
}

func newAcqImage(srv *Server, name string, width, height int32) *acqImage {
	pixels := make([]int16, int(width)*int(height))
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			pixels[y*width+x] = int16((x + y) % 4096)
		}
	}
	o := &acqImage{name: name, width: width, height: height, pixels: pixels}
	o.init(srv, "AcqImage", o, scripting.IIDAcqImage)
	return o
}

func (o *acqImage) GetName() (com.BSTR, com.HRESULT) {
	return getProp(&o.object, "GetName", bstr(func(*State) string { return o.name }))
}

func (o *acqImage) GetWidth() (int32, com.HRESULT) {
	return getProp(&o.object, "GetWidth", func(*State) int32 { return o.width })
}

func (o *acqImage) GetHeight() (int32, com.HRESULT) {
	return getProp(&o.object, "GetHeight", func(*State) int32 { return o.height })
}

func (o *acqImage) GetDepth() (int32, com.HRESULT) {
	return getProp(&o.object, "GetDepth", func(*State) int32 { return 16 })
}

// GetAsSafeArray returns a new array with rows in dimension 1 and columns
// in dimension 2. The caller destroys it.
func (o *acqImage) GetAsSafeArray() (com.SafeArray, com.HRESULT) {
	return getProp(&o.object, "GetAsSafeArray", func(*State) com.SafeArray {
		return com.SafeArrayOf(com.VT_I2, o.pixels,
			com.Bound{Lower: 0, Upper: o.height - 1},
			com.Bound{Lower: 0, Upper: o.width - 1})
	})
}
