package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/hqzhou/textreflow/internal/reflow"
)

// reflowOverrides carries per-request option overrides. Pointers
// distinguish "not sent" from a zero value.
type reflowOverrides struct {
	Compact            *bool  `json:"compact,omitempty"`
	PageHeaders        *bool  `json:"page_headers,omitempty"`
	BoundaryLevel      *int   `json:"boundary_level,omitempty"`
	ShortHeadingMaxLen *int   `json:"short_heading_max_len,omitempty"`
	TitlePattern       string `json:"title_pattern,omitempty"`
}

// apply merges the overrides into a base options value.
func (o reflowOverrides) apply(base reflow.Options) (reflow.Options, error) {
	if o.Compact != nil {
		base.Compact = *o.Compact
	}
	if o.PageHeaders != nil {
		base.AddPageHeaders = *o.PageHeaders
	}
	if o.BoundaryLevel != nil {
		if *o.BoundaryLevel < 1 || *o.BoundaryLevel > 3 {
			return base, fmt.Errorf("boundary_level must be 1..3, got %d", *o.BoundaryLevel)
		}
		base.BoundaryLevel = *o.BoundaryLevel
	}
	if o.ShortHeadingMaxLen != nil {
		base.ShortHeading.MaxLen = *o.ShortHeadingMaxLen
	}
	if o.TitlePattern != "" {
		re, err := regexp.Compile(o.TitlePattern)
		if err != nil {
			return base, fmt.Errorf("invalid title_pattern: %w", err)
		}
		base.TitlePattern = re
	}
	return base, nil
}

// overridesFromForm reads the same overrides from multipart form
// values, for the upload endpoint.
func overridesFromForm(form url.Values) (reflowOverrides, error) {
	var o reflowOverrides
	if v := form.Get("compact"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("invalid compact value %q", v)
		}
		o.Compact = &b
	}
	if v := form.Get("page_headers"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("invalid page_headers value %q", v)
		}
		o.PageHeaders = &b
	}
	if v := form.Get("boundary_level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, fmt.Errorf("invalid boundary_level value %q", v)
		}
		o.BoundaryLevel = &n
	}
	if v := form.Get("short_heading_max_len"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return o, fmt.Errorf("invalid short_heading_max_len value %q", v)
		}
		o.ShortHeadingMaxLen = &n
	}
	o.TitlePattern = form.Get("title_pattern")
	return o, nil
}
