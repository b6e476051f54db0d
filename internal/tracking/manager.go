package tracking

import (
	"fmt"
	"os"
	"path/filepath"

	"quantlab/launcher/internal/confdoc"
)

const (
	// InitSection is the top-level key holding runtime initialization
	// parameters.
	InitSection = "qlib_init"

	// ManagerKey names an explicit experiment-tracking manager inside
	// the init section.
	ManagerKey = "exp_manager"
)

// ManagerKind tags the two ways a tracking manager can be selected.
type ManagerKind int

const (
	// ManagerDefault is the file-backed manager synthesized from the
	// working directory and the run-storage folder name.
	ManagerDefault ManagerKind = iota

	// ManagerExplicit is a manager specification supplied verbatim by
	// the configuration.
	ManagerExplicit
)

// ManagerSpec is the selected manager: either an explicit spec used
// unmodified, or the default spec identified by its storage URI.
type ManagerSpec struct {
	Kind     ManagerKind
	Explicit map[string]any // set when Kind == ManagerExplicit
	URI      string         // set when Kind == ManagerDefault
}

// InitParams carries everything the tracking environment needs to
// initialize: the document's init section plus the selected manager.
type InitParams struct {
	Init    map[string]any
	Manager ManagerSpec
}

// DefaultManagerURI synthesizes the storage URI of the default
// manager: a file-scheme URI at <absolute cwd>/<uriFolder>.
func DefaultManagerURI(uriFolder string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	cwd, err = filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return "file:" + filepath.Join(cwd, uriFolder), nil
}

// Prepare selects the tracking manager for doc. An init section that
// already names an explicit manager is used unmodified; otherwise the
// default file-backed manager is synthesized from uriFolder.
func Prepare(doc confdoc.Document, uriFolder string) (*InitParams, error) {
	initParams, err := doc.Map(InitSection)
	if err != nil {
		return nil, err
	}

	if raw, ok := initParams[ManagerKey]; ok {
		explicit, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config key '%s.%s' is %T, want mapping", InitSection, ManagerKey, raw)
		}
		return &InitParams{
			Init:    initParams,
			Manager: ManagerSpec{Kind: ManagerExplicit, Explicit: explicit},
		}, nil
	}

	uri, err := DefaultManagerURI(uriFolder)
	if err != nil {
		return nil, err
	}
	return &InitParams{
		Init:    initParams,
		Manager: ManagerSpec{Kind: ManagerDefault, URI: uri},
	}, nil
}
