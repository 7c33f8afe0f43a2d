package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrFlagsParse is returned by ParseFlags when the raw field is not a JSON
// object of booleans. Callers recover from it with the defaults.
var ErrFlagsParse = errors.New("flags parse failure")

// RedactionFlags selects which categories of sensitive data the prompt asks
// the model to redact. A flag missing from the JSON object is false.
type RedactionFlags struct {
	RedactIPs       bool `json:"redactIPs"`
	RedactEmails    bool `json:"redactEmails"`
	RedactKeys      bool `json:"redactKeys"`
	RedactUsernames bool `json:"redactUsernames"`
}

// DefaultFlags redacts every category.
func DefaultFlags() RedactionFlags {
	return RedactionFlags{
		RedactIPs:       true,
		RedactEmails:    true,
		RedactKeys:      true,
		RedactUsernames: true,
	}
}

// ParseFlags decodes the upload form's flags field. Keys match exactly;
// "REDACTIPS" is not "redactIPs".
//
// An empty field or JSON null yields the defaults with a nil error. Anything
// that is not a JSON object of booleans yields the defaults together with an
// error wrapping ErrFlagsParse, so the caller can log it and carry on.
func ParseFlags(raw string) (RedactionFlags, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultFlags(), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return DefaultFlags(), fmt.Errorf("%w: %v", ErrFlagsParse, err)
	}
	if fields == nil {
		return DefaultFlags(), nil
	}

	var flags RedactionFlags
	for key, dst := range map[string]*bool{
		"redactIPs":       &flags.RedactIPs,
		"redactEmails":    &flags.RedactEmails,
		"redactKeys":      &flags.RedactKeys,
		"redactUsernames": &flags.RedactUsernames,
	} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return DefaultFlags(), fmt.Errorf("%w: %s: %v", ErrFlagsParse, key, err)
		}
	}
	return flags, nil
}
