package validation

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format of every date control (YYYY-MM-DD)
const DateLayout = "2006-01-02"

var (
	httpURLPattern = regexp.MustCompile(`^https?://[^/]+/.+$`)
	sshURLPattern  = regexp.MustCompile(`^git@[^:]+:.+$|^ssh://[^@/]+@[^/]+/.+$`)
)

// ValidationError is a problem with a single control or field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every problem found in one input
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation failed"
	case 1:
		return ve.Errors[0].Message
	default:
		return fmt.Sprintf("validation failed with %d errors", len(ve.Errors))
	}
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

// Messages returns the messages in the order they were found
func (ve *ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Validator accumulates errors across chained checks so a single call reports
// every bad control at once.
type Validator struct {
	errors ValidationErrors
}

func New() *Validator {
	return &Validator{errors: ValidationErrors{Errors: []ValidationError{}}}
}

func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, field+" is required")
	}
	return v
}

func (v *Validator) MaxLength(field, value string, limit int) *Validator {
	if len(value) > limit {
		v.errors.Add(field, fmt.Sprintf("%s must not exceed %d characters", field, limit))
	}
	return v
}

// GitURL accepts HTTP(S) and SSH remotes. Empty values pass; pair with Required.
func (v *Validator) GitURL(field, value string) *Validator {
	if value == "" || httpURLPattern.MatchString(value) || sshURLPattern.MatchString(value) {
		return v
	}
	v.errors.Add(field, fmt.Sprintf("%s must be a Git remote (HTTP(S) or SSH)", field))
	return v
}

// RepositoryURL accepts anything git can clone from: a remote, a file:// URL
// or an absolute local path.
func (v *Validator) RepositoryURL(field, value string) *Validator {
	if strings.HasPrefix(value, "file://") || filepath.IsAbs(value) {
		return v
	}
	return v.GitURL(field, value)
}

func (v *Validator) InRange(field string, value, lo, hi int) *Validator {
	if value < lo || value > hi {
		v.errors.Add(field, fmt.Sprintf("%s must be between %d and %d", field, lo, hi))
	}
	return v
}

func (v *Validator) GreaterThanOrEqual(field string, value, lo int) *Validator {
	if value < lo {
		v.errors.Add(field, fmt.Sprintf("%s must be greater than or equal to %d", field, lo))
	}
	return v
}

func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors.Add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Integer parses a whole-number control into dst. dst is left untouched when
// raw is not an integer.
func (v *Validator) Integer(field, raw string, dst *int) *Validator {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		v.errors.Add(field, field+" must be a whole number")
		return v
	}
	*dst = n
	return v
}

// Date parses a DateLayout control as midnight in loc. An empty value leaves
// dst as the zero time, which callers treat as an open side of a range.
func (v *Validator) Date(field, raw string, loc *time.Location, dst *time.Time) *Validator {
	if raw == "" {
		*dst = time.Time{}
		return v
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		v.errors.Add(field, field+" must be a date (YYYY-MM-DD)")
		return v
	}
	*dst = t
	return v
}

// Glob rejects patterns that path.Match cannot compile
func (v *Validator) Glob(field, pattern string) *Validator {
	if _, err := path.Match(pattern, ""); err != nil {
		v.errors.Add(field, fmt.Sprintf("%s pattern %q is malformed", field, pattern))
	}
	return v
}

func (v *Validator) Custom(field string, fn func() error) *Validator {
	if err := fn(); err != nil {
		v.errors.Add(field, err.Error())
	}
	return v
}

// Validate returns the collected errors, or nil when every check passed
func (v *Validator) Validate() error {
	if v.errors.HasErrors() {
		return &v.errors
	}
	return nil
}

func (v *Validator) Errors() *ValidationErrors {
	return &v.errors
}
