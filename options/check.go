package options

import (
	"fmt"
	"strings"
)

type CheckEnum int

const (
	CheckMethods   CheckEnum = 1 << iota // before/after/around: wrapped property must already be a function
	CheckExtend                          // plain properties must not shadow a value resolvable on the target
	CheckMerge                           // merge values must be arrays, strings or objects compatible with the current value
	CheckRequires                        // requires: every listed name must resolve on the target
	CheckPrototype                       // requirePrototype: target must be or inherit from the given object

	CheckAll  CheckEnum = (1 << iota) - 1 // all checks combined, the validating mode
	CheckNone CheckEnum = 0               // no checks, the permissive mode
)

var checkNames = []struct {
	name  string
	check CheckEnum
}{
	{"methods", CheckMethods},
	{"extend", CheckExtend},
	{"merge", CheckMerge},
	{"requires", CheckRequires},
	{"prototype", CheckPrototype},
}

// Has reports whether every bit of flag is enabled.
func (c CheckEnum) Has(flag CheckEnum) bool {
	return c&flag == flag
}

// Names lists the enabled checks in declaration order.
func (c CheckEnum) Names() []string {
	var out []string
	for _, cn := range checkNames {
		if c.Has(cn.check) {
			out = append(out, cn.name)
		}
	}

	return out
}

func (c CheckEnum) String() string {
	switch c {
	case CheckNone:
		return "none"
	case CheckAll:
		return "all"
	default:
		return strings.Join(c.Names(), "|")
	}
}

// ParseChecks combines check names (case-insensitive). "all" and "none" are
// accepted as shorthands.
func ParseChecks(names ...string) (CheckEnum, error) {
	var out CheckEnum

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case "all":
			out |= CheckAll
			continue
		case "none":
			continue
		}

		found := false
		for _, cn := range checkNames {
			if cn.name == name {
				out |= cn.check
				found = true

				break
			}
		}

		if !found {
			return CheckNone, fmt.Errorf("unknown check %q", raw)
		}
	}

	return out, nil
}
