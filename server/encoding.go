package server

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/marshal"
)

const (
	ContentTypeJSON  = "application/json"
	ContentTypeArrow = "application/vnd.apache.arrow.stream"

	HeaderRequestID = "X-Request-Id"
)

// Packed array encodings.
const (
	EndianLittle = "LITTLE"
	EndianBig    = "BIG"
	EncodingB64  = "BASE64"
)

// PackedArray is the JSON form of a two dimensional image.
type PackedArray struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Type       string `json:"type"`
	Endianness string `json:"endianness"`
	Encoding   string `json:"encoding"`
	Data       string `json:"data"`
}

// PackArray encodes a (height, width) array as little endian base64.
func PackArray(a *marshal.Array) (PackedArray, error) {
	if len(a.Shape) != 2 {
		return PackedArray{}, errors.InvalidInput(errors.PhaseServe, []string{"shape"}, a.ShapeString(),
			"expected a two dimensional array")
	}
	raw, err := binary.Append(nil, binary.LittleEndian, a.Data())
	if err != nil {
		return PackedArray{}, errors.Wrap(errors.PhaseServe, errors.KindContract, err, "pack array")
	}
	return PackedArray{
		Width:      a.Shape[1],
		Height:     a.Shape[0],
		Type:       a.DType.String(),
		Endianness: EndianLittle,
		Encoding:   EncodingB64,
		Data:       base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// UnpackArray decodes a packed array.
func UnpackArray(p PackedArray) (*marshal.Array, error) {
	dt, ok := marshal.ParseDType(p.Type)
	if !ok {
		return nil, errors.Unsupported(errors.PhaseServe, "array type "+p.Type)
	}
	var order binary.ByteOrder
	switch p.Endianness {
	case EndianLittle:
		order = binary.LittleEndian
	case EndianBig:
		order = binary.BigEndian
	default:
		return nil, errors.Unsupported(errors.PhaseServe, "endianness "+p.Endianness)
	}
	if p.Encoding != EncodingB64 {
		return nil, errors.Unsupported(errors.PhaseServe, "array encoding "+p.Encoding)
	}
	n, ok := marshal.Elements(p.Height, p.Width)
	if !ok || n > math.MaxInt/dt.Size() {
		return nil, errors.InvalidInput(errors.PhaseServe, []string{"shape"}, [2]int{p.Height, p.Width}, "invalid array size")
	}
	size := n * dt.Size()

	raw, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "array data")
	}
	if len(raw) != size {
		return nil, errors.InvalidInput(errors.PhaseServe, []string{"data"}, len(raw),
			fmt.Sprintf("expected %d bytes for a %dx%d %s array", size, p.Height, p.Width, p.Type))
	}
	a := marshal.NewArray(dt, p.Height, p.Width)
	if _, err := binary.Decode(raw, order, a.Data()); err != nil {
		return nil, errors.Wrap(errors.PhaseServe, errors.KindInvalidInput, err, "array data")
	}
	return a, nil
}

func packImages(images map[string]*marshal.Array) (map[string]PackedArray, error) {
	out := make(map[string]PackedArray, len(images))
	for name, img := range images {
		p, err := PackArray(img)
		if err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, nil
}

// writeImages writes one record with a single row. Every image is a list
// column named after the detector, with its height and width in the field
// metadata.
func writeImages(w io.Writer, mem memory.Allocator, images map[string]*marshal.Array) error {
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	slices.Sort(names)

	fields := make([]arrow.Field, 0, len(names))
	cols := make([]arrow.Array, 0, len(names))
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	for _, name := range names {
		img := images[name]
		if len(img.Shape) != 2 {
			return errors.InvalidInput(errors.PhaseServe, []string{name}, img.ShapeString(),
				"expected a two dimensional array")
		}
		elem := img.DType.ArrowType()
		b := array.NewListBuilder(mem, elem)
		b.Append(true)
		img.AppendTo(b.ValueBuilder())
		cols = append(cols, b.NewArray())
		b.Release()

		fields = append(fields, arrow.Field{
			Name: name,
			Type: arrow.ListOf(elem),
			Metadata: arrow.NewMetadata(
				[]string{"height", "width"},
				[]string{strconv.Itoa(img.Shape[0]), strconv.Itoa(img.Shape[1])},
			),
		})
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, cols, 1)
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return err
	}
	return wr.Close()
}

// readImages reverses writeImages.
func readImages(r io.Reader, mem memory.Allocator) (map[string]*marshal.Array, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseServe, errors.KindContract, err, "arrow stream")
	}
	defer rdr.Release()

	out := make(map[string]*marshal.Array)
	if !rdr.Next() {
		if err := rdr.Err(); err != nil {
			return nil, errors.Wrap(errors.PhaseServe, errors.KindContract, err, "arrow stream")
		}
		return out, nil
	}
	rec := rdr.Record()
	schema := rec.Schema()
	for i, f := range schema.Fields() {
		list, ok := rec.Column(i).(*array.List)
		if !ok || list.Len() != 1 {
			return nil, errors.Contract(errors.PhaseServe, "column %q is not a single row list", f.Name)
		}
		height, err := metaInt(f.Metadata, "height")
		if err != nil {
			return nil, err
		}
		width, err := metaInt(f.Metadata, "width")
		if err != nil {
			return nil, err
		}
		start, end := list.ValueOffsets(0)
		values := array.NewSlice(list.ListValues(), start, end)
		img, err := marshal.ArrayFromArrow(values, height, width)
		values.Release()
		if err != nil {
			return nil, err
		}
		out[f.Name] = img
	}
	return out, nil
}

func metaInt(md arrow.Metadata, key string) (int, error) {
	i := md.FindKey(key)
	if i < 0 {
		return 0, errors.Contract(errors.PhaseServe, "missing %s metadata", key)
	}
	n, err := strconv.Atoi(md.Values()[i])
	if err != nil {
		return 0, errors.Contract(errors.PhaseServe, "bad %s metadata: %v", key, err)
	}
	if n < 0 {
		return 0, errors.Contract(errors.PhaseServe, "negative %s metadata: %d", key, n)
	}
	return n, nil
}

// accepts reports whether a comma separated header lists token, ignoring
// parameters such as q values.
func accepts(header, token string) bool {
	for part := range strings.SplitSeq(header, ",") {
		v, _, _ := strings.Cut(part, ";")
		if strings.EqualFold(strings.TrimSpace(v), token) {
			return true
		}
	}
	return false
}

// writeBody sends body, gzip compressed when the client accepts it and the
// body is larger than minGzip.
func writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte, minGzip int) {
	if minGzip >= 0 && len(body) > minGzip && accepts(r.Header.Get("Accept-Encoding"), "gzip") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(body); err == nil && zw.Close() == nil {
			body = buf.Bytes()
			w.Header().Set("Content-Encoding", "gzip")
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func encodeJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseServe, errors.KindContract, err, "encode response")
	}
	return b, nil
}
