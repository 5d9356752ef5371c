package args

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is an inclusive, 1-based range of pages. Zero bounds are open.
type PageRange struct {
	Start int
	End   int
}

// Contains reports whether the 1-based page number is in the range
func (r PageRange) Contains(page int) bool {
	if r.Start != 0 && page < r.Start {
		return false
	}
	if r.End != 0 && page > r.End {
		return false
	}
	return true
}

// String renders the range the way it is written on the command line
func (r PageRange) String() string {
	switch {
	case r.Start != 0 && r.Start == r.End:
		return strconv.Itoa(r.Start)
	case r.Start == 0 && r.End == 0:
		return "-"
	case r.Start == 0:
		return fmt.Sprintf("-%d", r.End)
	case r.End == 0:
		return fmt.Sprintf("%d-", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ParsePages parses a comma-separated list such as "1,3-5,8-,-2"
func ParsePages(spec string) ([]PageRange, error) {
	var ranges []PageRange
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("page export range %q contains an empty entry", spec)
		}
		r, err := parsePageRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parsePageRange(part string) (PageRange, error) {
	startText, endText, isRange := strings.Cut(part, "-")
	if !isRange {
		n, err := parsePageNumber(part)
		if err != nil {
			return PageRange{}, err
		}
		return PageRange{Start: n, End: n}, nil
	}

	var r PageRange
	var err error
	if startText != "" {
		if r.Start, err = parsePageNumber(startText); err != nil {
			return PageRange{}, err
		}
	}
	if endText != "" {
		if r.End, err = parsePageNumber(endText); err != nil {
			return PageRange{}, err
		}
	}
	if startText == "" && endText == "" {
		return PageRange{}, fmt.Errorf("page export range must have start or end")
	}
	if r.Start != 0 && r.End != 0 && r.Start > r.End {
		return PageRange{}, fmt.Errorf("page export range must end at a page after the start")
	}
	return r, nil
}

func parsePageNumber(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("not a valid page number: %q", text)
	}
	if n <= 0 {
		return 0, fmt.Errorf("page numbers start at one")
	}
	return n, nil
}
