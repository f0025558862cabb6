package validation

import (
	"context"
	"os"

	"git.home.luguber.info/inful/sitemapper/internal/artifact"
	"git.home.luguber.info/inful/sitemapper/internal/manifest"
)

// PreviousManifestRule requires a successful previous build.
type PreviousManifestRule struct{}

func (PreviousManifestRule) Name() string { return "previous_manifest" }

func (PreviousManifestRule) Validate(_ context.Context, vctx Context) Result {
	if vctx.Previous == nil {
		return Failure("no previous manifest")
	}
	if vctx.Previous.Status != manifest.StatusSuccess {
		return Failure("previous build did not succeed")
	}
	return Success()
}

// GeneratorVersionRule forces a rebuild after an upgrade.
type GeneratorVersionRule struct{}

func (GeneratorVersionRule) Name() string { return "generator_version" }

func (GeneratorVersionRule) Validate(_ context.Context, vctx Context) Result {
	if vctx.Previous.Inputs.GeneratorVersion != vctx.Inputs.GeneratorVersion {
		return Failure("sitemapper version changed")
	}
	return Success()
}

// InputsHashRule compares the hashes of the source documents.
type InputsHashRule struct{}

func (InputsHashRule) Name() string { return "inputs_hash" }

func (InputsHashRule) Validate(_ context.Context, vctx Context) Result {
	prev, err := vctx.Previous.Hash()
	if err != nil {
		return Failure("previous inputs hash unavailable")
	}
	current := manifest.BuildManifest{Inputs: vctx.Inputs}
	cur, err := current.Hash()
	if err != nil {
		return Failure("current inputs hash unavailable")
	}
	if prev != cur {
		return Failure("inputs changed")
	}
	return Success()
}

// ArtifactIntegrityRule requires the artifact to exist unmodified.
type ArtifactIntegrityRule struct{}

func (ArtifactIntegrityRule) Name() string { return "artifact_integrity" }

func (ArtifactIntegrityRule) Validate(_ context.Context, vctx Context) Result {
	if vctx.ArtifactPath != vctx.Previous.Outputs.ArtifactPath {
		return Failure("artifact path changed")
	}
	data, err := os.ReadFile(vctx.ArtifactPath)
	if err != nil {
		return Failure("artifact missing")
	}
	_, body := artifact.Split(data)
	if manifest.Fingerprint(body) != vctx.Previous.Outputs.Fingerprint {
		return Failure("artifact modified since last build")
	}
	return Success()
}
