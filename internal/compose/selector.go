package compose

import (
	"regexp"
	"strconv"
)

// SelectorPrefix is the only device family the grammar accepts.
const SelectorPrefix = "cuda:"

var selectorRe = regexp.MustCompile(`^` + regexp.QuoteMeta(SelectorPrefix) + `([0-9]+)(?:-([0-9]+))?$`)

// maxRangeLen caps a single selector; no host carries more devices than ports.
const maxRangeLen = 1 << 16

// ParseSelector expands a selector token such as "cuda:2" or "cuda:0-3" into
// ascending device indices. Reversed ranges ("cuda:4-2") are rejected.
func ParseSelector(token string) ([]int, error) {
	m := selectorRe.FindStringSubmatch(token)
	if m == nil {
		return nil, ErrInvalidSelector(token, "expected cuda:INT or cuda:INT-INT")
	}
	first, err := parseIndex(m[1])
	if err != nil {
		return nil, ErrInvalidSelector(token, err.Error())
	}
	last := first
	if m[2] != "" {
		if last, err = parseIndex(m[2]); err != nil {
			return nil, ErrInvalidSelector(token, err.Error())
		}
	}
	if last < first {
		return nil, ErrInvalidSelector(token, "reversed range")
	}
	if last-first >= maxRangeLen {
		return nil, ErrInvalidSelector(token, "range too large")
	}
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, strconv.ErrRange
	}
	return int(n), nil
}
