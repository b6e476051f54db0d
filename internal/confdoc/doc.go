// Package confdoc provides the configuration document model for the
// launcher: safe YAML parsing, typed access into nested mappings,
// deep merging, and one-level base-config inheritance.
//
// A Document has no fixed schema. The pipeline only inspects a small
// set of well-known top-level keys (BASE_CONFIG_PATH, sys, qlib_init,
// experiment_name, task, wandb_name); everything else passes through
// untouched to the training collaborator.
package confdoc
