// Package tracking decides how a run is recorded: either through an
// experiment-tracking manager named explicitly in the configuration,
// or through the default file-backed store rooted under the working
// directory. It also hosts the optional secondary run session that a
// model can request with a wandb flag.
package tracking
