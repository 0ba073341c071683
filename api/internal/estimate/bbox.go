package estimate

import "math"

var (
	cornerKeys = []string{"x_min", "y_min", "x_max", "y_max"}
	rectKeys   = []string{"x", "y", "w", "h"}
)

// NormalizeBox converts a wire bounding box into the canonical rect form.
// Two encodings are accepted: corner form (x_min,y_min,x_max,y_max) and rect
// form (x,y,w,h); both use the 0..1000 space. nil means no box was reported.
// Out-of-range values fail hard — clamping would hide model drift upstream.
func NormalizeBox(raw any) (*Rect, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, invalid("bbox_1000", "must be an object")
	}

	hasCorners := hasAll(obj, cornerKeys)
	hasRect := hasAll(obj, rectKeys)
	if !hasCorners && !hasRect {
		return nil, invalid("bbox_1000", "must include either (x_min,y_min,x_max,y_max) or (x,y,w,h)")
	}

	if hasCorners {
		vals := make(map[string]int, 4)
		for _, key := range cornerKeys {
			v, ok := boxCoord(obj[key])
			if !ok {
				return nil, invalid("bbox_1000."+key, "must be an integer between 0 and 1000")
			}
			vals[key] = v
		}
		if vals["x_min"] > vals["x_max"] {
			return nil, invalid("bbox_1000.x_max", "must be greater than or equal to x_min")
		}
		if vals["y_min"] > vals["y_max"] {
			return nil, invalid("bbox_1000.y_max", "must be greater than or equal to y_min")
		}
		return &Rect{
			X: vals["x_min"],
			Y: vals["y_min"],
			W: vals["x_max"] - vals["x_min"],
			H: vals["y_max"] - vals["y_min"],
		}, nil
	}

	vals := make(map[string]int, 4)
	for _, key := range rectKeys {
		v, ok := boxCoord(obj[key])
		if !ok {
			return nil, invalid("bbox_1000."+key, "must be an integer between 0 and 1000")
		}
		vals[key] = v
	}
	return &Rect{X: vals["x"], Y: vals["y"], W: vals["w"], H: vals["h"]}, nil
}

func hasAll(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}

// boxCoord accepts an integral JSON number in [0,1000].
func boxCoord(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	n := int(f)
	if n < 0 || n > 1000 {
		return 0, false
	}
	return n, true
}
