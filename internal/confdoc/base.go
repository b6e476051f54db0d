package confdoc

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"quantlab/launcher/internal/logger"
)

// BaseConfigKey names an optional parent configuration inside a
// document. The referenced file is loaded and merged underneath the
// document that names it.
const BaseConfigKey = "BASE_CONFIG_PATH"

// BaseResolver loads and merges an optional parent configuration.
type BaseResolver struct {
	merger Merger
}

// NewBaseResolver creates a BaseResolver backed by the given merger.
func NewBaseResolver(merger Merger) *BaseResolver {
	return &BaseResolver{merger: merger}
}

// Resolve applies one level of base-config inheritance to doc.
//
// A document without a BASE_CONFIG_PATH key is returned unchanged. The
// referenced path is tried as given first (absolute, or relative to
// the current working directory), then relative to the directory that
// contains originPath. If neither location exists, Resolve fails with
// a NotFoundError naming the original value and both locations.
//
// The base file is parsed without template rendering, and is not
// itself scanned for a further BASE_CONFIG_PATH.
func (r *BaseResolver) Resolve(doc Document, originPath string) (Document, error) {
	if !doc.Has(BaseConfigKey) {
		return doc, nil
	}
	basePath, err := doc.String(BaseConfigKey)
	if err != nil {
		return nil, err
	}
	logger.Info("using base config", zap.String("path", basePath))

	resolved := basePath
	if _, err := os.Stat(resolved); err != nil {
		originAbs, absErr := filepath.Abs(originPath)
		if absErr != nil {
			return nil, fmt.Errorf("resolve config path %s: %w", originPath, absErr)
		}
		fallback := filepath.Join(filepath.Dir(originAbs), basePath)
		logger.Info("base config not found, trying path relative to config file",
			zap.String("path", basePath),
			zap.String("fallback", fallback))
		if _, err := os.Stat(fallback); err != nil {
			return nil, NewNotFoundError(basePath, resolved, fallback)
		}
		resolved = fallback
	}

	base, err := ParseFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("load base config %s: %w", resolved, err)
	}
	logger.Info("loaded base config", zap.String("path", resolved))

	merged, err := r.merger.Merge(base, doc)
	if err != nil {
		return nil, err
	}
	return merged, nil
}
