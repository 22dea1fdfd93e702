package graph

import "testing"

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"SyncWorkspace", CategorySyncWorkspace},
		{"SyncWorkspace()", CategoryUnknown},
		{"RunTask(app:build)", CategoryRunTask},
		{"RunPersistentTask(app:dev)", CategoryRunTask},
		{"RunInteractiveTask(app:shell)", CategoryRunTask},
		{"RunTarget(app:build)", CategoryRunTask},
		{"SyncProject(app)", CategorySyncProject},
		{"SyncNodeProject(app)", CategorySyncProject},
		{"InstallDependencies(node)", CategoryInstallDependencies},
		{"InstallNodeDeps(18.0.0)", CategoryInstallDependencies},
		{"SetupEnvironment(node)", CategorySetupEnvironment},
		{"SetupNodeEnv", CategorySetupEnvironment},
		{"SetupToolchain(node)", CategorySetupToolchain},
		{"SetupNodeTool(18.0.0)", CategorySetupToolchain},
		{"SetupProto(0.40.1)", CategoryUnknown},
		{"", CategoryUnknown},
		{"app:build", CategoryUnknown},
		{"Run", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ClassifyLabel(tt.label); got != tt.want {
				t.Errorf("ClassifyLabel(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

// Labels produced by FormatActionLabel classify back to their kind for every
// category except setup-proto, which has no heuristic.
func TestClassifyLabel_RoundTrip(t *testing.T) {
	actions := []ActionNode{
		{Kind: ActionSyncWorkspace},
		{Kind: ActionSyncProject, Params: ActionParams{ProjectID: "app"}},
		{Kind: ActionSetupProto, Params: ActionParams{Version: "0.40.1"}},
		{Kind: ActionSetupEnvironment, Params: ActionParams{ToolchainID: "node", Root: "apps/web"}},
		{Kind: ActionSetupToolchain, Params: ActionParams{Toolchain: &ToolchainSpec{ID: "eslint", Req: "^8"}}},
		{Kind: ActionInstallDependencies, Params: ActionParams{ToolchainID: "node"}},
		{Kind: ActionRunTask, Params: ActionParams{Target: "app:build", Persistent: true}},
	}

	for _, a := range actions {
		t.Run(string(a.Kind), func(t *testing.T) {
			label, err := FormatActionLabel(a)
			if err != nil {
				t.Fatalf("FormatActionLabel() error: %v", err)
			}

			want, _ := a.Kind.Category()
			if a.Kind == ActionSetupProto {
				want = CategoryUnknown
			}
			if got := ClassifyLabel(label); got != want {
				t.Errorf("ClassifyLabel(%q) = %q, want %q", label, got, want)
			}
		})
	}
}

func TestShortenDepLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"production", "prod"},
		{"development", "dev"},
		{"build", "build"},
		{"peer", "peer"},
		{"prod", "prod"},
		{"dev", "dev"},
		{"Production", "Production"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ShortenDepLabel(tt.in)
			if got != tt.want {
				t.Errorf("ShortenDepLabel(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := ShortenDepLabel(got); again != got {
				t.Errorf("ShortenDepLabel not idempotent: %q -> %q -> %q", tt.in, got, again)
			}
		})
	}
}
