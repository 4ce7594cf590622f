// Package protocol implements the binary command protocol spoken between a
// sliding puzzle session handler and its client.
//
// Every request starts with a 4-byte command tag followed by a fixed payload;
// every known request is answered with exactly one response. There is no
// length prefix beyond the board size sent ahead of the grid.
//
//	Tag  Name        Request                 Response
//	0    New         int32 size              bool ok
//	1    Move        int32 tile              bool ok
//	2    Load        [100]byte filename      bool ok
//	3    Save        [100]byte filename      bool ok
//	4    CheckWin    -                       bool solved
//	5    FetchBoard  -                       int32 size, size² × int32
//
// Integers are written in the host's native byte order and a bool is a single
// byte. Peers on machines with different endianness cannot talk to each other
// over tcp.
//
// Unknown tags are dropped by the handler without a response, so a client
// must never send one and then wait.
//
// Thread Safety:
// Client serialises requests with a mutex so at most one exchange is in
// flight on the underlying stream.
package protocol
