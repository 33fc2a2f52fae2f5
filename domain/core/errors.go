package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: a logic or setup bug, never retried
	ErrMissingRule    = errors.New("rule set has no entry for result")
	ErrEmptyFixtures  = errors.New("fixture list is empty")
	ErrUnknownTeam    = errors.New("team is not part of the season universe")
	ErrMissingColumn  = errors.New("standings column not found")
	ErrUnknownRuleSet = errors.New("unknown rule set")
	ErrInvalidResult  = errors.New("invalid result code")
	ErrTeamMismatch   = errors.New("standings tables cover different teams")

	// Simulation errors
	ErrSimulationFailed  = errors.New("simulation iteration failed")
	ErrInvalidIterations = errors.New("iteration count must be positive")
)

// Error constructors with context
func NewMissingRuleError(ruleSet, result string) error {
	return fmt.Errorf("%w: rule set %s, result %s", ErrMissingRule, ruleSet, result)
}

func NewUnknownTeamError(team string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, column)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// IsConfigurationError reports whether err is one of the fatal setup errors
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingRule) ||
		errors.Is(err, ErrEmptyFixtures) ||
		errors.Is(err, ErrUnknownTeam) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrUnknownRuleSet) ||
		errors.Is(err, ErrInvalidResult) ||
		errors.Is(err, ErrTeamMismatch)
}
