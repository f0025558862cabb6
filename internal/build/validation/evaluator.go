package validation

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/manifest"
)

// SkipEvaluator decides whether a build can be safely skipped based on the
// previous manifest and the artifact on disk.
type SkipEvaluator struct {
	rules  *RuleChain
	logger *slog.Logger
}

// NewSkipEvaluator constructs an evaluator with the standard rules.
func NewSkipEvaluator(logger *slog.Logger) *SkipEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkipEvaluator{
		rules: NewRuleChain(
			PreviousManifestRule{},
			GeneratorVersionRule{},
			InputsHashRule{},
			ArtifactIntegrityRule{},
		),
		logger: logger,
	}
}

// Evaluate reports whether the build can be skipped and, if not, why. It never
// returns an error; missing or corrupt data simply disables the skip.
func (se *SkipEvaluator) Evaluate(ctx context.Context, prev *manifest.BuildManifest, inputs manifest.Inputs, artifactPath string) (bool, string) {
	result := se.rules.Validate(ctx, Context{
		Previous:     prev,
		Inputs:       inputs,
		ArtifactPath: artifactPath,
		Logger:       se.logger,
	})
	return result.Passed, result.Reason
}
