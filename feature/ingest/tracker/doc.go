// Package tracker decides whether a file change event warrants
// processing. It remembers modification times per path, suppresses
// duplicate filesystem events inside a short skip window, and bounds
// its memory with a periodic cleanup sweep.
package tracker
