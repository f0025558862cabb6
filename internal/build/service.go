package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/manifest"
	"git.home.luguber.info/inful/sitemapper/internal/sitemap"
)

// BuildService is the canonical interface for executing sitemap builds.
type BuildService interface {
	// Run executes a complete build pipeline: load → compute → render → write → record.
	// Returns a BuildResult with detailed outcomes and any error encountered.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a sitemap build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// Cache memoizes the computed sitemap. A nil cache gives every run a
	// fresh computation.
	Cache *sitemap.Cache

	// Trigger names what started the build (cli, watch, schedule).
	Trigger string

	// Options provides optional build behavior modifiers.
	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// OutputPath overrides output.sitemap from the configuration.
	OutputPath string

	// DryRun computes and renders the sitemap without writing anything.
	DryRun bool

	// SkipIfUnchanged skips the build when the inputs match the last manifest.
	SkipIfUnchanged bool
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// BuildID identifies the run in logs, history and notifications.
	BuildID string

	// Status indicates overall build outcome.
	Status BuildStatus

	// Stack is the computed sitemap (nil when skipped or failed before compute).
	Stack *sitemap.Stack

	// Content is the rendered artifact.
	Content []byte

	// ArtifactPath is where the artifact was (or would have been) written.
	ArtifactPath string

	// Manifest describes the build.
	Manifest *manifest.BuildManifest

	// Warnings collects non-fatal errors from the post-write stages.
	Warnings []error

	// Duration is the total build execution time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time

	// EndTime is when the build completed.
	EndTime time.Time

	// Skipped indicates the build was skipped due to no changes.
	Skipped bool

	// SkipReason explains why the build was skipped (if Skipped is true).
	SkipReason string
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build completed successfully.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates the build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusSkipped indicates the build was skipped (e.g., no changes).
	BuildStatusSkipped BuildStatus = "skipped"

	// BuildStatusCancelled indicates the build was cancelled.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed ||
		s == BuildStatusSkipped || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusSkipped
}
