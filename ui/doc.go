// Package ui implements the line-based text client of the puzzle.
//
// The client owns no game state. Every action is a request to a session
// handler through the session protocol, and a win check is issued before
// each menu prompt. Input is read as whitespace-separated words, so a
// command and its argument may be typed on one line ("m 7") or on two.
package ui
