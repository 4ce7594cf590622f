// Package codec reads and writes sliding puzzle save files.
//
// A save file is plain text: the board size on the first line, followed by
// size² lines holding one decimal cell value each, in row-major order. There
// is no header, checksum or version.
//
//	3
//	1
//	2
//	...
//	0
//
// Decode can optionally verify that the cells form a permutation of
// 0..size²-1 so that a corrupt file fails to load instead of producing an
// unplayable board.
package codec
