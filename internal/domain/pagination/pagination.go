package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPagination is returned for non-numeric, negative or
	// overflowing page/size values.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrPageSizeTooLarge is returned when size exceeds the configured maximum.
	ErrPageSizeTooLarge = errors.New("page size too large")
)

// Request holds the optional page and size of a listing. A nil field means
// the parameter was not supplied.
type Request struct {
	Page *int64
	Size *int64
}

// Window is the slice of a listing to return. When All is set, Offset and
// Limit are zero and the full listing is returned.
type Window struct {
	Offset int64
	Limit  int64
	All    bool
}

// Unbounded is the window covering the whole listing.
var Unbounded = Window{All: true}

// ParseRequest parses raw query values. Empty strings count as absent.
func ParseRequest(page, size string) (Request, error) {
	var req Request

	p, err := parseParam("page", page)
	if err != nil {
		return Request{}, err
	}
	req.Page = p

	s, err := parseParam("size", size)
	if err != nil {
		return Request{}, err
	}
	req.Size = s

	return req, nil
}

func parseParam(name, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidPagination, name)
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidPagination, name)
	}

	return &v, nil
}

// Window computes the listing window. maxSize of zero disables the size cap.
func (r Request) Window(maxSize int64) (Window, error) {
	var page, size int64
	if r.Page != nil {
		page = *r.Page
	}
	if r.Size != nil {
		size = *r.Size
	}

	if page < 0 || size < 0 {
		return Window{}, fmt.Errorf("%w: page and size must not be negative", ErrInvalidPagination)
	}

	// A zero size has always meant "no size given", even alongside a page.
	if size == 0 {
		return Unbounded, nil
	}

	if maxSize > 0 && size > maxSize {
		return Window{}, fmt.Errorf("%w: size %d exceeds maximum %d", ErrPageSizeTooLarge, size, maxSize)
	}

	if page > 0 && size > math.MaxInt64/page {
		return Window{}, fmt.Errorf("%w: page %d with size %d overflows", ErrInvalidPagination, page, size)
	}

	return Window{Offset: size * page, Limit: size}, nil
}

// Apply returns the part of items selected by w. The result shares the
// backing array with items.
func Apply[T any](items []T, w Window) []T {
	if w.All {
		return items
	}

	n := int64(len(items))
	if w.Offset >= n {
		return items[:0]
	}

	end := n
	if w.Limit > 0 && w.Limit < n-w.Offset {
		end = w.Offset + w.Limit
	}

	return items[w.Offset:end]
}
