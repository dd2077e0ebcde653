package config

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Options control Parse and FromBytes.
type Options struct {
	// Interpolate resolves every ${dotted.path} placeholder after parsing.
	// When false, placeholders are kept intact; that is a valid terminal
	// state, not an error.
	Interpolate bool

	// Overrides are applied last, after parsing and interpolation, keyed by
	// dotted path. Values are converted with FromGo.
	Overrides map[string]any
}

var (
	sectionRE = regexp.MustCompile(`^\[([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*)\]$`)
	keyRE     = regexp.MustCompile(`^@?[A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*$`)
)

// Parse reads the textual configuration format into a Tree.
//
// Blank lines and lines starting with '#' or ';' are ignored. A
// [dotted.section] header opens (or re-opens) a section; `key = value`
// assigns into the current section with the value coerced as a JSON literal
// falling back to a verbatim string. Re-opening a section merges into it,
// and a duplicate key within one section is last-write-wins. Assignments
// before the first header land at the root.
func Parse(src string, opts Options) (Tree, error) {
	root := Tree{}
	current := root

	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' {
			m := sectionRE.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("malformed section header %q", line)}
			}
			sec, err := openSection(root, strings.Split(m[1], "."))
			if err != nil {
				return nil, &ParseError{Line: lineNo, Message: err.Error()}
			}
			current = sec
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("unrecognized line %q", line)}
		}
		key := strings.TrimSpace(line[:eq])
		if !keyRE.MatchString(key) {
			return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("invalid key %q", key)}
		}
		if existing, ok := current[key]; ok && existing.IsSection() {
			return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("key %q already names a section", key)}
		}
		current[key] = LeafVal(coerceScalar(line[eq+1:]))
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	out := root
	if opts.Interpolate {
		var err error
		out, err = Interpolate(root)
		if err != nil {
			return nil, err
		}
	}
	if len(opts.Overrides) > 0 {
		if err := ApplyOverrides(out, opts.Overrides); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// openSection walks (or creates) the nested trees named by a section path.
// It fails when an intermediate key already holds a non-section value.
func openSection(root Tree, segs []string) (Tree, error) {
	cur := root
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			sub := Tree{}
			cur[seg] = SectionVal(sub)
			cur = sub
			continue
		}
		if !v.IsSection() {
			return nil, fmt.Errorf("section [%s] collides with a non-section value at %q",
				strings.Join(segs, "."), strings.Join(segs[:i+1], "."))
		}
		cur = v.Section()
	}
	return cur, nil
}

// ApplyOverrides sets dotted-path overrides on t in place, in sorted path
// order, creating intermediate sections as needed. Values are converted
// with FromGo.
func ApplyOverrides(t Tree, overrides map[string]any) error {
	paths := make([]string, 0, len(overrides))
	for p := range overrides {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		v, err := FromGo(overrides[p])
		if err != nil {
			return fmt.Errorf("config: override %q: %w", p, err)
		}
		if err := t.SetPath(p, v); err != nil {
			return fmt.Errorf("config: override %q: %w", p, err)
		}
	}
	return nil
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
