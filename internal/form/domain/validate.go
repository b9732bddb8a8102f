package domain

import (
	"fmt"
	"time"
)

// FieldError is one payload problem tied to a field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full set of payload problems for one submission.
type ValidationErrors struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("payload validation failed with %d field error(s)", len(e.Fields))
}

func (e *ValidationErrors) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Validate checks payload against the form type. It reports every problem it
// finds rather than stopping at the first.
func (t FormType) Validate(payload map[string]any) error {
	errs := &ValidationErrors{}

	for key := range payload {
		if _, ok := t.Field(key); !ok {
			errs.add(key, "unknown field")
		}
	}

	for _, f := range t.Fields {
		value, present := payload[f.Name]
		if !present || value == nil {
			if f.Required {
				errs.add(f.Name, "required field is missing")
			}
			continue
		}
		if msg := checkKind(f, value); msg != "" {
			errs.add(f.Name, msg)
		}
	}

	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}

func checkKind(f FieldSpec, value any) string {
	switch f.Kind {
	case KindText:
		if _, ok := value.(string); !ok {
			return "expected a string"
		}
	case KindNumber:
		// JSON numbers decode as float64.
		switch value.(type) {
		case float64, int, int64:
		default:
			return "expected a number"
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return "expected a boolean"
		}
	case KindDate:
		s, ok := value.(string)
		if !ok {
			return "expected an ISO date string"
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return "expected a date in YYYY-MM-DD format"
		}
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return "expected a string"
		}
		for _, allowed := range f.Enum {
			if s == allowed {
				return ""
			}
		}
		return fmt.Sprintf("value %q is not one of the allowed options", s)
	case KindLookup:
		// Lookup references travel as the referenced row id.
		switch value.(type) {
		case string, float64, int64:
		default:
			return "expected a lookup reference id"
		}
	}
	return ""
}
