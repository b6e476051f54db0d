package confdoc

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// Merger deep-merges a base (parent) document with a child document.
// Every leaf present in the child overrides the corresponding leaf in
// the base; keys present only in the base survive unchanged; nested
// mappings merge recursively; non-mapping values (scalars, sequences)
// are replaced wholesale, never concatenated.
type Merger interface {
	Merge(base, child Document) (Document, error)
}

// MergoMerger implements Merger on top of dario.cat/mergo, with a
// transformer supplying the mapping-merge policy: mergo's own options
// either skip zero-valued child leaves (WithOverride) or replace whole
// mappings (WithOverwriteWithEmptyValue), and neither is the contract
// above.
type MergoMerger struct{}

// NewMergoMerger creates a MergoMerger.
func NewMergoMerger() *MergoMerger {
	return &MergoMerger{}
}

// Merge merges child over base, child values winning. Neither input is
// mutated.
func (m *MergoMerger) Merge(base, child Document) (Document, error) {
	merged, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone base config: %w", err)
	}
	childCopy, err := child.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone child config: %w", err)
	}
	dst := map[string]any(merged)
	if err := mergo.Merge(&dst, map[string]any(childCopy), mergo.WithOverride, mergo.WithTransformers(mappingTransformer{})); err != nil {
		return nil, fmt.Errorf("merge configs: %w", err)
	}
	return Document(dst), nil
}

// mappingTransformer merges map[string]any values key by key: a child
// key always wins, zero values included, and nested mappings merge
// recursively.
type mappingTransformer struct{}

func (mappingTransformer) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t != reflect.TypeOf(map[string]any(nil)) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if !src.IsValid() || src.IsNil() {
			return nil
		}
		sm, ok := src.Interface().(map[string]any)
		if !ok {
			return nil
		}
		if dst.IsNil() {
			if dst.CanSet() {
				dst.Set(src)
			}
			return nil
		}
		dm, ok := dst.Interface().(map[string]any)
		if !ok {
			return nil
		}
		mergeMapping(dm, sm)
		return nil
	}
}

// mergeMapping applies src onto dst in place. Pairs of nested mappings
// merge recursively; any other pairing replaces the dst value.
func mergeMapping(dst, src map[string]any) {
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeMapping(dm, sm)
				continue
			}
		}
		dst[k] = sv
	}
}
