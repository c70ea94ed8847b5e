// Package play holds the playground demos shown by "nanohtml play" and the
// playground server.
package play
