package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/printingin3d/javascad-sub000/pkg/graph"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms modeling source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: base-plate -> base_plate
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// get returns the keyword argument name, or else the positional argument
// at index pos.
func (a kwArgs) get(name string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[name]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.NodeID{}, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVector accepts either a single vec3 or three numbers.
func toVector(args []zygo.Sexp) (v3.Vec, error) {
	switch len(args) {
	case 1:
		return toVec3(args[0])
	case 3:
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return v3.Vec{}, fmt.Errorf("%c: %w", "xyz"[i], err)
			}
			c[i] = f
		}
		return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
	}
	return v3.Vec{}, fmt.Errorf("expected a vec3 or three numbers, got %d arguments", len(args))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toNodeRefs flattens shape references and lists of them, in order.
func toNodeRefs(args []zygo.Sexp) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for i, a := range args {
		if ref, ok := a.(*sexpNodeRef); ok {
			ids = append(ids, ref.id)
			continue
		}
		items, err := sexpListToSlice(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: expected shape or list of shapes: %w", i+1, err)
		}
		nested, err := toNodeRefs(items)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		ids = append(ids, nested...)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtin is the zygomys user function signature.
type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs all modeling builtins into a zygomys environment.
// The builtins operate on the provided DesignGraph, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := &builder{g: g}
	for name, fn := range map[string]builtin{
		"vec3":         b.vec3,
		"box":          b.box,
		"cylinder":     b.cylinder,
		"sphere":       b.sphere,
		"translate":    b.transform(func(td *graph.TransformData, v v3.Vec) { td.Translation = &v }),
		"rotate":       b.transform(func(td *graph.TransformData, v v3.Vec) { td.Rotation = &v }),
		"scale":        b.scale,
		"union":        b.boolean(graph.OpUnion),
		"difference":   b.boolean(graph.OpDifference),
		"intersection": b.boolean(graph.OpIntersection),
		"defpart":      b.defpart,
		"part":         b.part,
		"assembly":     b.assembly,
	} {
		env.AddFunction(name, fn)
	}
}

// builder turns builtin calls into graph nodes.
type builder struct {
	g *graph.DesignGraph
}

func (b *builder) add(kind graph.NodeKind, name string, data graph.NodeData, children ...graph.NodeID) *sexpNodeRef {
	n := graph.NewNode(kind, name, data, children...)
	b.g.AddNode(n)
	return &sexpNodeRef{id: n.ID, name: name}
}

// (vec3 1 2 3)
func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	v, err := toVector(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
	}
	return &sexpVec3{vec: v}, nil
}

// (box 10 20 30), (box (vec3 10 20 30)) or (box :size (vec3 10 20 30))
func (b *builder) box(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var (
		size v3.Vec
		err  error
	)
	if v, ok := pa.kw["size"]; ok {
		size, err = toVec3(v)
	} else {
		size, err = toVector(pa.positional)
	}
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
	}
	return b.add(graph.NodePrimitive, "", graph.BoxData{Size: size}), nil
}

// (cylinder 10 2), (cylinder 10 2 16) or (cylinder :height 10 :radius 2 :segments 16)
func (b *builder) cylinder(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	var cd graph.CylinderData

	h, ok := pa.get("height", 0)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("cylinder requires a height")
	}
	var err error
	if cd.Height, err = toFloat64(h); err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
	}

	r, ok := pa.get("radius", 1)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("cylinder requires a radius")
	}
	if cd.Radius, err = toFloat64(r); err != nil {
		return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
	}

	if s, ok := pa.get("segments", 2); ok {
		if cd.Segments, err = toInt(s); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: segments: %w", err)
		}
	}
	return b.add(graph.NodePrimitive, "", cd), nil
}

// (sphere 5) or (sphere :radius 5)
func (b *builder) sphere(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	r, ok := pa.get("radius", 0)
	if !ok {
		return zygo.SexpNull, fmt.Errorf("sphere requires a radius")
	}
	radius, err := toFloat64(r)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
	}
	return b.add(graph.NodePrimitive, "", graph.SphereData{Radius: radius}), nil
}

// transform builds (translate shape (vec3 ...)) and (rotate shape (vec3 ...)).
// The vector may also be given as three numbers.
func (b *builder) transform(set func(*graph.TransformData, v3.Vec)) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires a shape and a vector", name)
		}
		child, err := toNodeRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		v, err := toVector(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		var td graph.TransformData
		set(&td, v)
		return b.add(graph.NodeTransform, "", td, child), nil
	}
}

// (scale shape 2) scales uniformly; (scale shape (vec3 1 2 1)) per axis.
func (b *builder) scale(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) == 2 {
		if k, err := toFloat64(args[1]); err == nil {
			args = []zygo.Sexp{args[0], &sexpVec3{vec: v3.Vec{X: k, Y: k, Z: k}}}
		}
	}
	return b.transform(func(td *graph.TransformData, v v3.Vec) { td.Scale = &v })(env, name, args)
}

// boolean builds (union a b ...), (difference a b ...) and
// (intersection a b ...). Lists of shapes are flattened in place.
func (b *builder) boolean(op graph.BooleanOp) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		children, err := toNodeRefs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
		}
		if len(children) == 0 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least one shape", op)
		}
		return b.add(graph.NodeBoolean, "", graph.BooleanData{Op: op}, children...), nil
	}
}

// (defpart "name" shape) registers a named part as a root of the graph.
func (b *builder) defpart(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 2 {
		return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
	}
	if b.g.Lookup(partName) != nil {
		return zygo.SexpNull, fmt.Errorf("defpart: %q is already defined", partName)
	}
	children, err := toNodeRefs(args[1:])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defpart %q: %w", partName, err)
	}
	ref := b.add(graph.NodeGroup, partName, graph.GroupData{}, children...)
	b.g.AddRoot(ref.id)
	return ref, nil
}

// (part "name") refers to a part defined earlier.
func (b *builder) part(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("part requires a name argument")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
	}
	n := b.g.Lookup(partName)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
	}
	return &sexpNodeRef{id: n.ID, name: partName}, nil
}

// (assembly "name" shapes...) groups shapes into one root. Parts placed
// into an assembly stop being roots of their own.
func (b *builder) assembly(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
	}
	asmName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
	}
	if b.g.Lookup(asmName) != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: %q is already defined", asmName)
	}
	children, err := toNodeRefs(args[1:])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("assembly %q: %w", asmName, err)
	}
	for _, c := range children {
		b.g.RemoveRoot(c)
	}
	ref := b.add(graph.NodeGroup, asmName, graph.GroupData{}, children...)
	b.g.AddRoot(ref.id)
	return ref, nil
}
