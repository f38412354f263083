package types

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

// OperatingMode decides whether live decisions may reach an execution collaborator.
// It has no default: callers must set it explicitly.
type OperatingMode string

const (
	// ModeSimulation keeps decisions advisory, nothing is executed
	ModeSimulation OperatingMode = "simulation"
	// ModeLive forwards entries and exits to the execution provider
	ModeLive OperatingMode = "live"
)

// OperatingModes lists the recognised modes.
var OperatingModes = []OperatingMode{ModeSimulation, ModeLive}

// ParseOperatingMode converts a config value into an OperatingMode.
func ParseOperatingMode(value string) (OperatingMode, error) {
	expected := strings.Join(lo.Map(OperatingModes, func(mode OperatingMode, _ int) string {
		return string(mode)
	}), " or ")

	if value == "" {
		return "", errors.Newf(errors.ErrCodeInvalidMode, "operating mode is required (%s)", expected)
	}

	if !slices.Contains(OperatingModes, OperatingMode(value)) {
		return "", errors.Newf(errors.ErrCodeInvalidMode, "unknown operating mode %q (expected %s)", value, expected)
	}

	return OperatingMode(value), nil
}
