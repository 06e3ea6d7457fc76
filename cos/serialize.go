package cos

import (
	"math"
	"strconv"
)

// Serialize returns the canonical encoding of v. It is total: every Value
// has exactly one encoding, and equal values encode to identical bytes.
func Serialize(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the canonical encoding of v to dst.
func AppendValue(dst []byte, v Value) []byte {
	switch o := v.(type) {
	case nil, Null:
		return append(dst, "null"...)
	case Boolean:
		if o {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case Integer:
		return strconv.AppendInt(dst, int64(o), 10)
	case Real:
		return AppendReal(dst, float64(o))
	case Name:
		return appendName(dst, o)
	case String:
		return appendString(dst, o)
	case Array:
		dst = append(dst, '[')
		for i, it := range o.items {
			if i > 0 {
				dst = append(dst, ' ')
			}
			dst = AppendValue(dst, it)
		}
		return append(dst, ']')
	case Dictionary:
		return appendDict(dst, o)
	case Stream:
		dst = appendDict(dst, o.Dictionary())
		dst = append(dst, "\nstream\n"...)
		dst = append(dst, o.data...)
		return append(dst, "\nendstream"...)
	case Reference:
		dst = strconv.AppendUint(dst, o.Number, 10)
		dst = append(dst, ' ')
		dst = strconv.AppendUint(dst, uint64(o.Generation), 10)
		return append(dst, " R"...)
	}
	return append(dst, "null"...)
}

func appendDict(dst []byte, d Dictionary) []byte {
	if len(d.m) == 0 {
		return append(dst, "<<>>"...)
	}
	dst = append(dst, "<<"...)
	for _, k := range d.Keys() {
		dst = append(dst, ' ')
		dst = appendName(dst, k)
		dst = append(dst, ' ')
		dst = AppendValue(dst, d.m[k])
	}
	return append(dst, " >>"...)
}

// realPrecision is the number of fractional digits kept for reals.
const realPrecision = 5

// AppendReal appends f in the notation readers accept: never exponential,
// integral values without a decimal point, otherwise at most five
// fractional digits with trailing zeros removed. NaN and infinities are
// written as 0.
func AppendReal(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, '0')
	}
	if f == math.Trunc(f) {
		if f == 0 {
			return append(dst, '0')
		}
		return strconv.AppendFloat(dst, f, 'f', -1, 64)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'f', realPrecision, 64)
	end := len(dst)
	for end > start && dst[end-1] == '0' {
		end--
	}
	if end > start && dst[end-1] == '.' {
		end--
	}
	dst = dst[:end]
	if s := string(dst[start:]); s == "-0" || s == "" {
		dst = append(dst[:start], '0')
	}
	return dst
}

// FormatReal is the string form of AppendReal.
func FormatReal(f float64) string { return string(AppendReal(nil, f)) }
