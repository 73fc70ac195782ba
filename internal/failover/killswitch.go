package failover

import (
	"os"
	"strings"

	"github.com/spigell/hr-assist/internal/analysis"
)

// KillSwitch reports whether the remote arm is switched off for kind.
type KillSwitch func(kind analysis.Kind) bool

const (
	// EnvAIMode switches the remote arm off for every kind when false.
	EnvAIMode = "AI_MODE"
	// EnvAIModePrefix plus an upper-cased kind switches off a single kind.
	EnvAIModePrefix = "AI_MODE_"
)

// EnvKillSwitch reads AI_MODE and AI_MODE_<KIND> on every call. The global
// variable is checked first; a per-kind value cannot re-enable a kind that
// AI_MODE turned off. A nil lookup uses os.LookupEnv.
func EnvKillSwitch(lookup func(string) (string, bool)) KillSwitch {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return func(kind analysis.Kind) bool {
		if v, ok := lookup(EnvAIMode); ok && isOff(v) {
			return true
		}
		if v, ok := lookup(EnvAIModePrefix + strings.ToUpper(string(kind))); ok && isOff(v) {
			return true
		}
		return false
	}
}

// Static returns a switch that is off for every kind when off is true.
func Static(off bool) KillSwitch {
	return func(analysis.Kind) bool { return off }
}

// Combine is off for a kind when any of switches is.
func Combine(switches ...KillSwitch) KillSwitch {
	return func(kind analysis.Kind) bool {
		for _, s := range switches {
			if s != nil && s(kind) {
				return true
			}
		}
		return false
	}
}

func isOff(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0", "off", "no", "disabled", "manual":
		return true
	default:
		return false
	}
}
