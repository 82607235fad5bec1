// Package simulation provides a scenario-driven test harness for validating
// end-to-end sweep dynamics.
//
// The harness exercises the real Lattice, Engine and RunStore, with no mocks.
// Scenarios are Go builders that pin every node threshold (or draw thresholds
// from a seed) and run a full sweep, capturing the summary points and the
// per-node cluster snapshot at every p for property-based assertions.
//
// Each runner gets an isolated SQLite archive via t.TempDir(), so scenarios
// that archive their run never touch user data.
//
// Usage:
//
//	func TestChannel(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    rec := r.Run(simulation.Scenario{
//	        Name:       "channel",
//	        Side:       5,
//	        Thresholds: simulation.UniformThresholds(25, 0.3),
//	        Step:       0.25,
//	    })
//	    simulation.AssertCriticalP(t, rec, 0.5)
//	}
package simulation
