// Package system implements the simulation context for mechanism runs.
//
// A [System] owns the loaded bodies and joints, the global clock, and the
// constraint solver settings:
//
//	sys := system.New()
//	sys.Gravity = vec.New(0, -9.8, -9.8)
//	sys.Settings.Iterations = 40
//	sys.Settings.MaxRecoverySpeed = 0.002
//	for _, item := range items {
//		sys.Add(item)
//	}
//	sys.DoStep(0.002)
//
// # Thread Safety
//
// System instances are NOT thread-safe. Run one simulation per System and
// coordinate any observers from the stepping goroutine.
package system
