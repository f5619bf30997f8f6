// Package harness virtualizes the host environment for tests. A Host
// bundles the three seams the tool touches at runtime: the element
// provider, the tool registry, and the event constructor. Production
// code builds one Host at startup; tests swap pieces in and out.
//
// Each Install function replaces one seam and returns a restore
// closure that puts back the exact original. Always pair an install
// with a deferred restore:
//
//	restore := harness.Install(host, fixtures)
//	defer restore()
//
// A Host is in one of two states, real or virtualized. Installing over
// an already-virtualized seam silently overwrites it, and the second
// restore closure then reinstates the first substitute rather than the
// real value. Keep install/restore pairs strictly nested.
package harness
