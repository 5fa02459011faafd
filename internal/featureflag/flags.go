package featureflag

type Flag string

const (
	// FlagCheckInvariants verifies the index after every mutation. Only
	// bspdebug builds honor it.
	FlagCheckInvariants Flag = "CHECK_INVARIANTS"
	// FlagDisableQueries skips the probe queries of each frame.
	FlagDisableQueries Flag = "DISABLE_QUERIES"
	// FlagDisableView never opens the terminal view.
	FlagDisableView Flag = "DISABLE_VIEW"
)
