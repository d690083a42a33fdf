package fieldpath

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// partKind identifies one step of a path
type partKind uint8

const (
	partField partKind = iota
	partIndex
	partKey
)

// Part is a single step of a compiled path
type Part struct {
	kind  partKind
	name  string // field name or map key
	index int    // slice index, negative counts from the end
}

// Path is a compiled field path. Supported forms:
//   - a.b.c (nested map keys or struct fields)
//   - a.b[0] and a[-1] (slice or array index)
//   - a["key"] and a['key'] (map key)
//   - a[0].b["k"].c (mixed)
type Path struct {
	raw   string
	parts []Part
}

// FieldAccessError reports a malformed path
type FieldAccessError struct {
	Path    string
	Message string
}

func (e *FieldAccessError) Error() string {
	return fmt.Sprintf("field path %q: %s", e.Path, e.Message)
}

// Parse compiles a path once so that Get does no string work per record.
func Parse(path string) (*Path, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &FieldAccessError{Path: path, Message: "empty path"}
	}
	p := &Path{raw: path}
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, &FieldAccessError{Path: path, Message: "empty segment"}
		}
		if err := p.parseSegment(segment); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Path) parseSegment(segment string) error {
	bracket := strings.IndexByte(segment, '[')
	if bracket == -1 {
		p.parts = append(p.parts, Part{kind: partField, name: segment})
		return nil
	}
	if bracket > 0 {
		p.parts = append(p.parts, Part{kind: partField, name: segment[:bracket]})
	}
	rest := segment[bracket:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return &FieldAccessError{Path: p.raw, Message: "unexpected text after bracket"}
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return &FieldAccessError{Path: p.raw, Message: "unmatched bracket"}
		}
		part, err := parseBracket(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return &FieldAccessError{Path: p.raw, Message: err.Error()}
		}
		p.parts = append(p.parts, part)
		rest = rest[end+1:]
	}
	return nil
}

func parseBracket(content string) (Part, error) {
	if len(content) >= 2 {
		q := content[0]
		if (q == '\'' || q == '"') && content[len(content)-1] == q {
			return Part{kind: partKey, name: content[1 : len(content)-1]}, nil
		}
	}
	n, err := strconv.Atoi(content)
	if err != nil {
		return Part{}, fmt.Errorf("invalid bracket content %q, expected number or quoted string", content)
	}
	return Part{kind: partIndex, index: n, name: content}, nil
}

// String returns the path as written.
func (p *Path) String() string { return p.raw }

// Get walks data along the path. found is false when any step is missing.
func (p *Path) Get(data interface{}) (value interface{}, found bool) {
	v := reflect.ValueOf(data)
	for _, part := range p.parts {
		if v = indirect(v); !v.IsValid() {
			return nil, false
		}
		switch part.kind {
		case partField:
			v = fieldOrKey(v, part.name)
		case partKey:
			v = mapKey(v, part.name)
		case partIndex:
			v = element(v, part)
		}
		if !v.IsValid() {
			return nil, false
		}
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

// indirect unwraps pointers and interfaces; nil yields an invalid value
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func fieldOrKey(v reflect.Value, name string) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		return mapKey(v, name)
	case reflect.Struct:
		return v.FieldByName(name)
	}
	return reflect.Value{}
}

func mapKey(v reflect.Value, key string) reflect.Value {
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return reflect.Value{}
	}
	return v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
}

func element(v reflect.Value, part Part) reflect.Value {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		i := part.index
		if i < 0 {
			i += v.Len()
		}
		if i < 0 || i >= v.Len() {
			return reflect.Value{}
		}
		return v.Index(i)
	case reflect.Map:
		// numeric keys on maps: try the key type first, then the string form
		kt := v.Type().Key()
		switch kt.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return v.MapIndex(reflect.ValueOf(int64(part.index)).Convert(kt))
		case reflect.String:
			return v.MapIndex(reflect.ValueOf(part.name).Convert(kt))
		}
	}
	return reflect.Value{}
}
