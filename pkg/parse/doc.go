// Package parse turns untrusted generator output into validated study artifacts.
//
// Parsing is tolerant: a bad quiz block, mind-map node or edge is skipped and
// recorded in a Report instead of failing the whole batch. Flashcards are the
// exception and decode all-or-nothing.
package parse
