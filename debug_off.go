//go:build !bspdebug

package bsp

const debugChecks = false
