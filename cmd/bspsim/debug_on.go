//go:build bspdebug

package main

// debugBuild allows the CHECK_INVARIANTS feature flag.
const debugBuild = true
