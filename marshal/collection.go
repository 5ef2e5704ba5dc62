package marshal

import (
	"io"

	"go.uber.org/multierr"

	"github.com/wippyai/temscript/com"
	"github.com/wippyai/temscript/errors"
	"github.com/wippyai/temscript/scripting"
)

// Drain reads every item of coll, in index order, and wraps it. wrap takes
// ownership of the item only when it succeeds.
//
// coll is released before Drain returns. On any failure the wrappers
// already built are closed and no partial result is returned.
func Drain[E com.Unknown, W io.Closer](coll scripting.Collection[E], wrap func(E) (W, error)) (result []W, err error) {
	defer coll.Release()

	count, hr := coll.GetCount()
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseGet, hr, "Count")
	}
	if count < 0 {
		return nil, errors.Contract(errors.PhaseGet, "Negative collection size.")
	}

	items := make([]W, 0, count)
	defer func() {
		if err != nil {
			for _, w := range items {
				err = multierr.Append(err, w.Close())
			}
		}
	}()

	for i := int32(0); i < count; i++ {
		item, hr := coll.GetItem(com.NewVariantI4(i))
		if hr.Failed() {
			return nil, errors.Translate(errors.PhaseGet, hr, "Item")
		}
		w, err := wrap(item)
		if err != nil {
			item.Release()
			return nil, err
		}
		items = append(items, w)
	}
	return items, nil
}

// GetCollection fetches a collection through get and drains it.
func GetCollection[C scripting.Collection[E], E com.Unknown, W io.Closer](get func() (C, com.HRESULT), wrap func(E) (W, error)) ([]W, error) {
	coll, hr := get()
	if hr.Failed() {
		return nil, errors.Translate(errors.PhaseGet, hr)
	}
	return Drain[E, W](coll, wrap)
}
