package hk

import (
	"fmt"
	"strings"
)

// ResolveInterpolations walks root and rewrites every string scalar,
// substituting "${a.b.c}" references with the string value found by
// following the dotted path from root. It returns a new tree; root is not
// mutated.
//
// Resolution is iterative: a substituted value may itself contain further
// references. A reference to a boolean is substituted as "true" or "false".
// Resolution fails if a cycle is detected or a reference does not resolve to
// a string or boolean scalar.
func ResolveInterpolations(root Value) (Value, error) {
	r := &resolver{root: root, stack: map[string]bool{}}

	return r.resolve(root, "")
}

type resolver struct {
	root  Value
	stack map[string]bool
}

func (r *resolver) resolve(v Value, path string) (Value, error) {
	switch v.Kind() {
	case KindMap:
		m, err := v.AsMap()
		if err != nil {
			return Value{}, err
		}

		out := NewMap()

		for _, k := range m.Keys() {
			child, _ := m.Get(k)

			childPath := k
			if path != "" {
				childPath = path + "." + k
			}

			resolved, err := r.resolve(child, childPath)
			if err != nil {
				return Value{}, err
			}

			out.Set(k, resolved)
		}

		return MapValue(out), nil

	case KindString:
		s, err := v.AsString()
		if err != nil {
			return Value{}, err
		}

		resolved, err := r.resolveString(s, path)
		if err != nil {
			return Value{}, err
		}

		return StringValue(resolved), nil

	case KindBool:
		return v, nil

	default:
		return Value{}, fmt.Errorf("hk: unknown value kind at %q", path)
	}
}

// resolveString replaces every "${dotted.path}" occurrence in s.
func (r *resolver) resolveString(s, path string) (string, error) {
	var b strings.Builder

	rest := s

	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			b.WriteString(rest)

			break
		}

		end := strings.Index(rest[start:], "}")
		if end == -1 {
			return "", fmt.Errorf("hk: unterminated interpolation at %q", path)
		}

		end += start

		b.WriteString(rest[:start])

		ref := rest[start+2 : end]

		value, err := r.lookup(ref, path)
		if err != nil {
			return "", err
		}

		b.WriteString(value)

		rest = rest[end+1:]
	}

	return b.String(), nil
}

func (r *resolver) lookup(ref, from string) (string, error) {
	if r.stack[ref] {
		return "", fmt.Errorf("hk: interpolation cycle involving %q (referenced from %q)", ref, from)
	}

	r.stack[ref] = true
	defer delete(r.stack, ref)

	cur := r.root

	for _, part := range strings.Split(ref, ".") {
		v, ok := cur.Get(part)
		if !ok {
			return "", fmt.Errorf("hk: unresolved interpolation %q (referenced from %q)", ref, from)
		}

		cur = v
	}

	switch cur.Kind() {
	case KindString:
		raw, err := cur.AsString()
		if err != nil {
			return "", err
		}
		// Resolve nested references before substitution so chained
		// interpolations converge.
		return r.resolveString(raw, ref)
	case KindBool:
		b, err := cur.AsBool()
		if err != nil {
			return "", err
		}

		if b {
			return "true", nil
		}

		return "false", nil
	default:
		return "", fmt.Errorf("hk: interpolation %q does not resolve to a scalar", ref)
	}
}
