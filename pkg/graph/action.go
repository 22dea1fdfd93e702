package graph

import (
	"fmt"

	"github.com/matzehuels/actionviz/pkg/errors"
)

// ActionKind is the discriminator of an action node.
type ActionKind string

// Known action kinds.
const (
	ActionSyncWorkspace       ActionKind = "sync-workspace"
	ActionSyncProject         ActionKind = "sync-project"
	ActionSetupProto          ActionKind = "setup-proto"
	ActionSetupEnvironment    ActionKind = "setup-environment"
	ActionSetupToolchain      ActionKind = "setup-toolchain"
	ActionInstallDependencies ActionKind = "install-dependencies"
	ActionRunTask             ActionKind = "run-task"
)

// Category returns the display category of the kind, and false for kinds
// outside the known set.
func (k ActionKind) Category() (Category, bool) {
	switch k {
	case ActionSyncWorkspace, ActionSyncProject, ActionSetupProto, ActionSetupEnvironment,
		ActionSetupToolchain, ActionInstallDependencies, ActionRunTask:
		return Category(k), true
	}
	return CategoryUnknown, false
}

// ActionNode is a version 2 action record.
type ActionNode struct {
	Kind   ActionKind
	Params ActionParams
}

// ActionParams is the union of parameters used by all action kinds.
// Each kind reads only its own fields.
type ActionParams struct {
	ProjectID   string         `json:"projectId"`
	Project     string         `json:"project"` // older payloads
	Version     string         `json:"version"`
	ToolchainID string         `json:"toolchainId"`
	Root        string         `json:"root"`
	Toolchain   *ToolchainSpec `json:"toolchain"`
	Requirement string         `json:"requirement"`
	Target      string         `json:"target"`
	Persistent  bool           `json:"persistent"`
	Interactive bool           `json:"interactive"`
}

// ToolchainSpec identifies a toolchain and an optional version requirement.
type ToolchainSpec struct {
	ID  string `json:"id"`
	Req string `json:"req"`
}

func (p ActionParams) projectID() string {
	if p.ProjectID != "" {
		return p.ProjectID
	}
	return p.Project
}

func (p ActionParams) toolchain() (id, req string) {
	if p.Toolchain != nil {
		return p.Toolchain.ID, p.Toolchain.Req
	}
	return p.ToolchainID, p.Requirement
}

// FormatActionLabel returns the display label of an action node.
//
//	sync-workspace        SyncWorkspace
//	sync-project          SyncProject(<projectId>)
//	setup-proto           SetupProto(<version>)
//	setup-environment     SetupEnvironment(<toolchainId>[, <root>])
//	setup-toolchain       SetupToolchain(<toolchainId>[:<requirement>])
//	install-dependencies  InstallDependencies(<toolchainId>[, <root>])
//	run-task              RunPersistentTask | RunInteractiveTask | RunTask (<target>)
//
// Optional segments appear only when non-empty. For run-task, persistent
// wins over interactive. Kinds outside this table return UNKNOWN_ACTION, and
// a missing required parameter returns INVALID_PAYLOAD.
func FormatActionLabel(a ActionNode) (string, error) {
	p := a.Params
	switch a.Kind {
	case ActionSyncWorkspace:
		return "SyncWorkspace", nil

	case ActionSyncProject:
		if err := required(a.Kind, "projectId", p.projectID()); err != nil {
			return "", err
		}
		return fmt.Sprintf("SyncProject(%s)", p.projectID()), nil

	case ActionSetupProto:
		if err := required(a.Kind, "version", p.Version); err != nil {
			return "", err
		}
		return fmt.Sprintf("SetupProto(%s)", p.Version), nil

	case ActionSetupEnvironment:
		if err := required(a.Kind, "toolchainId", p.ToolchainID); err != nil {
			return "", err
		}
		return fmt.Sprintf("SetupEnvironment(%s%s)", p.ToolchainID, rootSuffix(p.Root)), nil

	case ActionSetupToolchain:
		id, req := p.toolchain()
		if err := required(a.Kind, "toolchain.id", id); err != nil {
			return "", err
		}
		if req != "" {
			return fmt.Sprintf("SetupToolchain(%s:%s)", id, req), nil
		}
		return fmt.Sprintf("SetupToolchain(%s)", id), nil

	case ActionInstallDependencies:
		if err := required(a.Kind, "toolchainId", p.ToolchainID); err != nil {
			return "", err
		}
		return fmt.Sprintf("InstallDependencies(%s%s)", p.ToolchainID, rootSuffix(p.Root)), nil

	case ActionRunTask:
		if err := required(a.Kind, "target", p.Target); err != nil {
			return "", err
		}
		switch {
		case p.Persistent:
			return fmt.Sprintf("RunPersistentTask(%s)", p.Target), nil
		case p.Interactive:
			return fmt.Sprintf("RunInteractiveTask(%s)", p.Target), nil
		default:
			return fmt.Sprintf("RunTask(%s)", p.Target), nil
		}
	}
	return "", errors.New(errors.ErrCodeUnknownAction, "unknown action kind %q", a.Kind)
}

func required(kind ActionKind, field, value string) error {
	if value == "" {
		return errors.New(errors.ErrCodeInvalidPayload, "%s action: missing param %q", kind, field)
	}
	return nil
}

func rootSuffix(root string) string {
	if root == "" {
		return ""
	}
	return ", " + root
}
