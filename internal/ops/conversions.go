package ops

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/qoreir/internal/rtvalue"
	"github.com/cwbudde/qoreir/internal/types"
)

// ConversionFunc converts a value of one static type to another. It may
// raise (e.g. a malformed string-to-int conversion at runtime).
type ConversionFunc func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception)

// ConversionDesc is the triple spec.md §3 describes.
type ConversionDesc struct {
	ID   int
	Name string
	From *types.Type
	To   *types.Type
	Func ConversionFunc
}

type convKey struct {
	from *types.Type
	to   *types.Type
}

// Identity is the distinguished no-op conversion, used whenever From == To.
var Identity = &ConversionDesc{
	ID:   -1,
	Name: "identity",
	Func: func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) { return v, nil },
}

func (r *Registry) addConversion(from, to *types.Type, fn ConversionFunc) *ConversionDesc {
	d := &ConversionDesc{
		ID:   r.nextDescID,
		Name: fmt.Sprintf("%s->%s", from.Name(), to.Name()),
		From: from,
		To:   to,
		Func: fn,
	}
	r.nextDescID++
	r.conversions[convKey{from, to}] = d
	return d
}

// Conversion looks up the direct edge from -> to. There is no chaining
// (spec.md §4.2): if no direct edge exists, the caller reports
// SemaNoConversion and substitutes types.Error.
func (r *Registry) Conversion(from, to *types.Type) (*ConversionDesc, bool) {
	if from == to {
		return Identity, true
	}
	d, ok := r.conversions[convKey{from, to}]
	return d, ok
}

func (r *Registry) registerConversions() {
	r.addConversion(types.Int, types.String, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return rtvalue.PointerValue(rtvalue.NewStringObject(strconv.FormatInt(v.Int, 10))), nil
	})
	r.addConversion(types.Bool, types.String, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		s := "false"
		if v.Bool {
			s = "true"
		}
		return rtvalue.PointerValue(rtvalue.NewStringObject(s)), nil
	})
	r.addConversion(types.String, types.Int, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		n, err := strconv.ParseInt(strVal(v), 10, 64)
		if err != nil {
			return rtvalue.Value{}, &rtvalue.Exception{
				Value: rtvalue.PointerValue(rtvalue.NewStringObject("cannot convert \"" + strVal(v) + "\" to Int")),
			}
		}
		return rtvalue.IntValue(n), nil
	})

	// SoftInt/SoftString/SoftBool are parameter-only conversion targets
	// (spec.md DESIGN NOTES §9): they accept the same sources their
	// non-soft counterpart accepts, via an identity-shaped payload.
	r.addConversion(types.Int, types.SoftInt, identityPayload)
	r.addConversion(types.String, types.SoftInt, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return r.mustConvert(types.String, types.Int, v)
	})
	r.addConversion(types.String, types.SoftString, identityPayload)
	r.addConversion(types.Int, types.SoftString, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		return r.mustConvert(types.Int, types.String, v)
	})
	r.addConversion(types.Bool, types.SoftBool, identityPayload)

	// Boxing/unboxing into and out of Any. Unboxing is the IR-level lowering
	// spec.md §9's open question prefers over implicit interpreter behavior.
	r.addConversion(types.Int, types.Any, identityPayload)
	r.addConversion(types.String, types.Any, identityPayload)
	r.addConversion(types.Bool, types.Any, identityPayload)
	r.addConversion(types.Any, types.Int, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		if v.Kind != rtvalue.KindInt {
			return rtvalue.Value{}, &rtvalue.Exception{
				Value: rtvalue.PointerValue(rtvalue.NewStringObject("Any value does not hold an Int")),
			}
		}
		return v, nil
	})
	r.addConversion(types.Any, types.String, func(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
		if !isString(v) {
			return rtvalue.Value{}, &rtvalue.Exception{
				Value: rtvalue.PointerValue(rtvalue.NewStringObject("Any value does not hold a String")),
			}
		}
		return v, nil
	})
}

func identityPayload(v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) { return v, nil }

func (r *Registry) mustConvert(from, to *types.Type, v rtvalue.Value) (rtvalue.Value, *rtvalue.Exception) {
	d, ok := r.Conversion(from, to)
	if !ok {
		return rtvalue.Value{}, &rtvalue.Exception{
			Value: rtvalue.PointerValue(rtvalue.NewStringObject("no conversion " + from.Name() + "->" + to.Name())),
		}
	}
	return d.Func(v)
}
