package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and bounded fields before defaults
// are applied. It mutates c in place.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}

	if m := NormalizeBuildMode(string(c.Build.Mode)); m != "" {
		if c.Build.Mode != m {
			res.Warnings = append(res.Warnings, warnChanged("build.mode", c.Build.Mode, m))
			c.Build.Mode = m
		}
	} else if strings.TrimSpace(string(c.Build.Mode)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("build.mode", string(c.Build.Mode), string(BuildModeLocal)))
		c.Build.Mode = BuildModeLocal
	}

	if p := NormalizeFailurePolicy(string(c.Build.FailurePolicy)); p != "" {
		if c.Build.FailurePolicy != p {
			res.Warnings = append(res.Warnings, warnChanged("build.failure_policy", c.Build.FailurePolicy, p))
			c.Build.FailurePolicy = p
		}
	} else if strings.TrimSpace(string(c.Build.FailurePolicy)) != "" {
		res.Warnings = append(res.Warnings, warnUnknown("build.failure_policy", string(c.Build.FailurePolicy), string(FailFast)))
		c.Build.FailurePolicy = FailFast
	}

	if c.Posts.WordsPerMinute < 0 {
		res.Warnings = append(res.Warnings, warnChanged("posts.words_per_minute", c.Posts.WordsPerMinute, 0))
		c.Posts.WordsPerMinute = 0
	}

	if p := c.Images.LocalPrefix; p != "" && !strings.HasSuffix(p, "/") {
		res.Warnings = append(res.Warnings, warnChanged("images.local_prefix", p, p+"/"))
		c.Images.LocalPrefix = p + "/"
	}
	if p := c.Images.DeployedPrefix; p != "" && !strings.HasSuffix(p, "/") {
		res.Warnings = append(res.Warnings, warnChanged("images.deployed_prefix", p, p+"/"))
		c.Images.DeployedPrefix = p + "/"
	}

	return res
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
