package graph

import "strings"

// ClassifyLabel recovers a category from a free-text version 1 label.
//
// It inverts the [FormatActionLabel] vocabulary on a best-effort basis and
// returns [CategoryUnknown] when nothing matches. The inversion is lossy:
// no rule matches "SetupProto(...)", so setup-proto labels classify as
// unknown. Older producers also used "RunTarget" and "InstallDeps", which
// the rules accept.
func ClassifyLabel(label string) Category {
	switch {
	case label == "SyncWorkspace":
		return CategorySyncWorkspace
	case strings.HasPrefix(label, "Run") && containsAny(label, "Target", "Task"):
		return CategoryRunTask
	case strings.HasPrefix(label, "Sync") && strings.Contains(label, "Project"):
		return CategorySyncProject
	case strings.HasPrefix(label, "Install") && containsAny(label, "Deps", "Dependencies"):
		return CategoryInstallDependencies
	case strings.HasPrefix(label, "Setup") && strings.Contains(label, "Env"):
		return CategorySetupEnvironment
	case strings.HasPrefix(label, "Setup") && strings.Contains(label, "Tool"):
		return CategorySetupToolchain
	}
	return CategoryUnknown
}

// ShortenDepLabel abbreviates dependency kinds: production becomes prod and
// development becomes dev. Any other label is returned unchanged.
func ShortenDepLabel(label string) string {
	switch label {
	case "production":
		return "prod"
	case "development":
		return "dev"
	}
	return label
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
