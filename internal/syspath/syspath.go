// Package syspath maintains the extra module lookup roots a
// configuration asks for under its sys section.
//
// The roots live in an explicit Roots value owned by the caller rather
// than in process-global state; nothing here mutates the environment.
package syspath

import (
	"fmt"
	"path/filepath"

	"quantlab/launcher/internal/confdoc"
)

// Roots is an ordered list of module lookup roots. Appends are never
// deduplicated: collecting the same configuration twice yields the
// same entries twice.
type Roots struct {
	entries []string
}

// NewRoots creates an empty Roots.
func NewRoots() *Roots {
	return &Roots{}
}

// Append adds lookup roots, preserving order and duplicates.
func (r *Roots) Append(paths ...string) {
	r.entries = append(r.entries, paths...)
}

// Entries returns a copy of the current lookup roots.
func (r *Roots) Entries() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of lookup roots.
func (r *Roots) Len() int {
	return len(r.entries)
}

// Collect reads the sys section of doc and returns the lookup roots it
// declares. Entries under sys.path are returned verbatim; entries
// under sys.rel_path are resolved against the absolute directory of
// originPath. A missing sys section or subkey contributes nothing.
func Collect(doc confdoc.Document, originPath string) ([]string, error) {
	plain, err := doc.Strings("sys.path")
	if err != nil {
		return nil, err
	}
	relative, err := doc.Strings("sys.rel_path")
	if err != nil {
		return nil, err
	}

	roots := make([]string, 0, len(plain)+len(relative))
	roots = append(roots, plain...)

	if len(relative) > 0 {
		originAbs, err := filepath.Abs(originPath)
		if err != nil {
			return nil, fmt.Errorf("resolve config path %s: %w", originPath, err)
		}
		dir := filepath.Dir(originAbs)
		for _, p := range relative {
			roots = append(roots, filepath.Join(dir, p))
		}
	}

	return roots, nil
}
