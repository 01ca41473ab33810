package domain

import (
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/multierr"
)

var (
	ErrMissingURLs = errors.New(`field "urls" is required`)
	ErrEmptyURLs   = errors.New("url list must not be empty")
	ErrTooManyURLs = errors.New("too many urls")
)

// ProbeRequest is the ordered list of URLs for one batch. Duplicates are allowed.
type ProbeRequest struct {
	URLs []string `json:"urls"`
}

// Validate checks the list shape and every entry. max <= 0 disables the size cap.
// Per-entry problems are combined into one multierr error.
func (r ProbeRequest) Validate(max int) error {
	if r.URLs == nil {
		return ErrMissingURLs
	}
	if len(r.URLs) == 0 {
		return ErrEmptyURLs
	}
	if max > 0 && len(r.URLs) > max {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyURLs, len(r.URLs), max)
	}
	var errs error
	for i, raw := range r.URLs {
		if err := ValidateURL(raw); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("urls[%d]: %w", i, err))
		}
	}
	return errs
}

// ValidateURL accepts absolute http/https URLs with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
