package value

// interpolateKeyframes finds the stops around p and blends between them.
// Before the first stop holds the first value, after the last stop holds the last.
func interpolateKeyframes(keys []Keyframe, p float64) float64 {
	if p <= keys[0].At {
		return keys[0].Value
	}

	last := keys[len(keys)-1]
	if p >= last.At {
		return last.Value
	}

	// Find surrounding keyframes
	var prev, next Keyframe
	for i := 0; i < len(keys)-1; i++ {
		if p >= keys[i].At && p < keys[i+1].At {
			prev = keys[i]
			next = keys[i+1]
			break
		}
	}

	span := next.At - prev.At
	if span == 0 {
		return next.Value
	}
	return Lerp(prev.Value, next.Value, (p-prev.At)/span)
}
