package dcf

import "errors"

var (
	// ErrInvalidAssumptions is returned when assumptions are out of their domain.
	// No row is computed in that case.
	ErrInvalidAssumptions = errors.New("invalid assumptions")

	// ErrNoRootFound is returned by a RootFinder that cannot bracket or converge to a root.
	ErrNoRootFound = errors.New("no root found")

	// ErrUnknownDistribution is returned when sampling an unsupported distribution kind.
	ErrUnknownDistribution = errors.New("unknown distribution")

	// ErrInvalidDistribution is returned for distribution parameters out of their domain.
	ErrInvalidDistribution = errors.New("invalid distribution parameters")

	// ErrNoValidDraws is returned when no simulated draw produced an NPV.
	ErrNoValidDraws = errors.New("no valid draw")
)
