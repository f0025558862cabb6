// Package validation decides whether a sitemap build can be skipped because
// nothing it depends on changed since the previous build.
package validation

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/manifest"
)

// Context contains all the data needed by validation rules.
type Context struct {
	// Previous is the manifest of the last build; nil when there is none.
	Previous *manifest.BuildManifest
	// Inputs describes the current build's inputs.
	Inputs manifest.Inputs
	// ArtifactPath is where the artifact is expected.
	ArtifactPath string
	Logger       *slog.Logger
}

// Result indicates whether validation passed and provides context.
type Result struct {
	Passed bool
	Reason string // human-readable reason for failure
}

// Success returns a successful validation result.
func Success() Result {
	return Result{Passed: true}
}

// Failure returns a failed validation result with a reason.
func Failure(reason string) Result {
	return Result{Passed: false, Reason: reason}
}

// SkipValidationRule represents a single validation rule for skip evaluation.
type SkipValidationRule interface {
	// Name returns a short identifier for this rule (for logging/debugging).
	Name() string

	// Validate checks if this rule allows skipping the build.
	Validate(ctx context.Context, vctx Context) Result
}

// RuleChain executes validation rules in sequence, stopping at the first failure.
type RuleChain struct {
	rules []SkipValidationRule
}

// NewRuleChain creates a new rule chain with the given rules.
func NewRuleChain(rules ...SkipValidationRule) *RuleChain {
	return &RuleChain{rules: rules}
}

// Validate executes all rules in order, returning the first failure or success if all pass.
func (rc *RuleChain) Validate(ctx context.Context, vctx Context) Result {
	for _, rule := range rc.rules {
		result := rule.Validate(ctx, vctx)
		if !result.Passed {
			if vctx.Logger != nil {
				vctx.Logger.Debug("Skip validation failed",
					"rule", rule.Name(),
					"reason", result.Reason)
			}
			return result
		}
	}
	return Success()
}
