package process

// Notes:
// - Real process-tree termination is covered by the browser integration
//   tests; here we only check that odd PIDs do not panic or signal anything.

import "testing"

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestKillProcessGroup_NonPositivePID(t *testing.T) {
	t.Parallel()

	// 0 and negatives would target the current group; they must be ignored.
	KillProcessGroup(0)
	KillProcessGroup(-1)
}
