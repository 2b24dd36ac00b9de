package game

import "errors"

// User-facing action failures. All are recoverable-by-retry game outcomes
// surfaced as transient messages, never faults. The only terminal condition is
// CO2 reaching the maximum, which is a phase (PhaseGameOver), not an error.
var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrAlreadySold           = errors.New("already sold")
	ErrNoRecipe              = errors.New("no recipe")
	ErrInsufficientGenes     = errors.New("insufficient genes")
	ErrInvalidTarget         = errors.New("invalid target")
)
