// Package executor runs shell commands behind a confirmation gate.
package executor

import (
	"context"
)

// CommandExecutor defines the interface for executing shell commands.
// This interface enables dependency injection and easier testing.
type CommandExecutor interface {
	// Execute runs command unless it needs confirmation and confirmed is false
	Execute(ctx context.Context, command string, confirmed bool) *ExecutionResult

	// Decline records that the user refused to run command
	Decline(command string) *ExecutionResult

	// GetPermissionChecker returns the confirmation gate
	GetPermissionChecker() PermissionChecker
}

// PermissionChecker defines the interface for checking command permissions.
type PermissionChecker interface {
	// CheckPermission classifies cmd and reports whether it must be confirmed
	CheckPermission(cmd string) (risk RiskLevel, needsConfirm bool, reason string)

	// SafeMode reports whether dangerous commands are held for confirmation
	SafeMode() bool

	// GetSettings returns current settings for display
	GetSettings() map[string]interface{}
}

// Runner spawns one shell process and waits for it
type Runner interface {
	Run(ctx context.Context, command string) RunOutput
}

// Ensure concrete types implement the interfaces
var _ CommandExecutor = (*Executor)(nil)
var _ PermissionChecker = (*Gate)(nil)
var _ Runner = (*ShellRunner)(nil)
