package executor

import (
	"fmt"
	"sync"
)

// Gate decides whether a command must be confirmed before it runs
type Gate struct {
	mu       sync.RWMutex
	safeMode bool
}

// NewGate creates a gate. With safeMode off dangerous commands are still
// reported but never held for confirmation.
func NewGate(safeMode bool) *Gate {
	return &Gate{safeMode: safeMode}
}

// CheckPermission classifies cmd and reports whether it needs confirmation
func (g *Gate) CheckPermission(cmd string) (risk RiskLevel, needsConfirm bool, reason string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fragment, dangerous := MatchDangerous(cmd)
	if !dangerous {
		return Safe, false, GetRiskDescription(Safe)
	}

	reason = fmt.Sprintf("%s (matches %q)", GetRiskDescription(Dangerous), fragment)
	if !g.safeMode {
		return Dangerous, false, reason + ", safe mode is off"
	}
	return Dangerous, true, reason
}

// SafeMode reports whether dangerous commands are held for confirmation
func (g *Gate) SafeMode() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.safeMode
}

// GetSettings returns current gate settings for display
func (g *Gate) GetSettings() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return map[string]interface{}{
		"safe_mode": g.safeMode,
		"denylist":  DangerousFragments(),
	}
}
