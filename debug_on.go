//go:build bspdebug

package bsp

// debugChecks runs CheckInvariants after every mutation.
const debugChecks = true
