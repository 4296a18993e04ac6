package executor

import (
	"strings"
)

// RiskLevel represents the risk level of a command
type RiskLevel int

const (
	// Safe commands run without confirmation
	Safe RiskLevel = iota
	// Dangerous commands match the denylist and need confirmation
	Dangerous
)

// String returns the lowercase name of the level
func (r RiskLevel) String() string {
	switch r {
	case Safe:
		return "safe"
	case Dangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

// dangerousFragments are matched as plain substrings of the lowercased
// command. The match is not shell aware: "echo format" is dangerous too.
var dangerousFragments = []string{
	"rm -rf",
	"format",
	"del /f",
	"sudo rm",
}

// DangerousFragments returns a copy of the denylist
func DangerousFragments() []string {
	out := make([]string, len(dangerousFragments))
	copy(out, dangerousFragments)
	return out
}

// MatchDangerous returns the first denylist fragment found in cmd
func MatchDangerous(cmd string) (string, bool) {
	lower := strings.ToLower(cmd)
	for _, fragment := range dangerousFragments {
		if strings.Contains(lower, fragment) {
			return fragment, true
		}
	}
	return "", false
}

// IsDangerous reports whether cmd contains a denylisted fragment
func IsDangerous(cmd string) bool {
	_, ok := MatchDangerous(cmd)
	return ok
}

// ClassifyCommand determines the risk level of a shell command
func ClassifyCommand(cmd string) RiskLevel {
	if IsDangerous(cmd) {
		return Dangerous
	}
	return Safe
}

// GetRiskDescription returns a human-readable description of the risk level
func GetRiskDescription(level RiskLevel) string {
	switch level {
	case Safe:
		return "Command runs without confirmation"
	case Dangerous:
		return "Potentially dangerous command"
	default:
		return "Unknown risk level"
	}
}
