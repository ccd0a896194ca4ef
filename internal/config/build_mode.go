package config

import "git.home.luguber.info/inful/blogindex/internal/foundation/normalization"

// BuildMode selects the image path prefix.
type BuildMode string

const (
	BuildModeLocal    BuildMode = "local"
	BuildModeDeployed BuildMode = "deployed"
)

var buildModes = normalization.NewNormalizer(map[string]BuildMode{
	"local":      BuildModeLocal,
	"debug":      BuildModeLocal,
	"dev":        BuildModeLocal,
	"deployed":   BuildModeDeployed,
	"deploy":     BuildModeDeployed,
	"production": BuildModeDeployed,
	"prod":       BuildModeDeployed,
})

// NormalizeBuildMode canonicalizes a build mode, returning "" when unknown.
func NormalizeBuildMode(raw string) BuildMode {
	return buildModes.Normalize(raw)
}

// BuildModeSpellings lists every accepted build mode spelling, sorted.
func BuildModeSpellings() []string {
	return buildModes.ValidKeys()
}

// FailurePolicy decides what a structural failure in one post does to the run.
type FailurePolicy string

const (
	// FailFast aborts the run on the first failing post; nothing is written.
	FailFast FailurePolicy = "fail_fast"
	// SkipFailed logs the failing post and leaves it out of the index.
	SkipFailed FailurePolicy = "skip"
)

var failurePolicies = normalization.WithCustomFold(map[string]FailurePolicy{
	"fail_fast":   FailFast,
	"failfast":    FailFast,
	"abort":       FailFast,
	"skip":        SkipFailed,
	"skip_failed": SkipFailed,
	"continue":    SkipFailed,
}, normalization.SnakeFold)

// NormalizeFailurePolicy canonicalizes a failure policy, returning "" when unknown.
func NormalizeFailurePolicy(raw string) FailurePolicy {
	return failurePolicies.Normalize(raw)
}
