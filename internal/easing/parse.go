package easing

import (
	"strconv"
	"strings"
)

// parse handles parameterized names such as "steps(4,end)" or "backOut(2.2)"
func parse(name string) (Func, bool) {
	open := strings.IndexByte(name, '(')
	if open <= 0 || !strings.HasSuffix(name, ")") {
		return nil, false
	}
	fn := strings.TrimSpace(name[:open])
	var args []string
	if inner := strings.TrimSpace(name[open+1 : len(name)-1]); inner != "" {
		for _, a := range strings.Split(inner, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}

	switch fn {
	case "steps":
		if len(args) < 1 || len(args) > 2 {
			return nil, false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return nil, false
		}
		policy := StepStart
		if len(args) == 2 {
			p, ok := parsePolicy(args[1])
			if !ok {
				return nil, false
			}
			policy = p
		}
		return Steps(n, policy), true

	case "backIn", "backOut", "backInOut":
		s := DefaultOvershoot
		if len(args) > 1 {
			return nil, false
		}
		if len(args) == 1 {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, false
			}
			s = v
		}
		switch fn {
		case "backIn":
			return BackIn(s), true
		case "backOut":
			return BackOut(s), true
		}
		return BackInOut(s), true

	case "spring":
		freq, damping := DefaultSpringFrequency, DefaultSpringDamping
		if len(args) > 2 {
			return nil, false
		}
		vals := []*float64{&freq, &damping}
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil || v < 0 {
				return nil, false
			}
			*vals[i] = v
		}
		return Spring(freq, damping), true
	}

	return nil, false
}

func parsePolicy(s string) (StepPolicy, bool) {
	switch strings.ToLower(s) {
	case "start":
		return StepStart, true
	case "end":
		return StepEnd, true
	case "both":
		return StepBoth, true
	}
	return StepStart, false
}
