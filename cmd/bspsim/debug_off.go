//go:build !bspdebug

package main

const debugBuild = false
