// Package tui is an interactive terminal viewer for a built report.
//
// The viewer shows one ranking at a time in a scrollable viewport. Tab and
// shift+tab (or l and h) switch rankings; q or ctrl+c quits.
package tui
