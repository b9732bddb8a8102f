package domain

import "sort"

// FieldKind is the value shape a payload field must carry.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindDate   FieldKind = "date"
	KindEnum   FieldKind = "enum"
	KindBool   FieldKind = "bool"
	// KindLookup references a row in the shared lookup tables by id.
	KindLookup FieldKind = "lookup"
)

// FieldSpec describes one payload field of a form type.
type FieldSpec struct {
	Name       string    `json:"name"`
	Kind       FieldKind `json:"kind"`
	Required   bool      `json:"required"`
	Enum       []string  `json:"enum,omitempty"`
	LookupKind string    `json:"lookup_kind,omitempty"`
}

// FormType describes one registered form. All types share the same CRUD
// surface; only the field list differs.
type FormType struct {
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	ProjectScoped bool        `json:"project_scoped"`
	Fields        []FieldSpec `json:"fields"`
}

// Field returns the spec for a payload field, if registered.
func (t FormType) Field(name string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Registry holds the known form types. It is assembled once at startup and
// read-only afterwards.
type Registry struct {
	types map[string]FormType
}

// NewRegistry builds a registry from the given types.
func NewRegistry(types []FormType) *Registry {
	m := make(map[string]FormType, len(types))
	for _, t := range types {
		m[t.Code] = t
	}
	return &Registry{types: m}
}

// Get returns the form type for code.
func (r *Registry) Get(code string) (FormType, bool) {
	t, ok := r.types[code]
	return t, ok
}

// List returns every registered type ordered by code.
func (r *Registry) List() []FormType {
	out := make([]FormType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
