package build

import "errors"

// Stage names used in logs, metrics and failure events.
const (
	StageLoad     = "load"
	StageSkip     = "skip_evaluation"
	StageCompute  = "compute"
	StageRender   = "render"
	StageWrite    = "write"
	StageManifest = "manifest"
	StageSnapshot = "snapshot"
	StageHistory  = "history"
	StageNotify   = "notify"
)

// ErrConfigRequired is returned when a request carries no configuration.
var ErrConfigRequired = errors.New("sitemapper: config required")
