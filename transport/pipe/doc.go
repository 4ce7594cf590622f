// Package pipe provides the byte channels that join a puzzle client to its
// session handler.
//
// New returns the two ends of an in-process channel built from a pair of
// operating system pipes, one per direction. Closing either end makes the
// other end read EOF, which is how a session learns its client has gone.
//
// Listen and Dial carry the same protocol between processes over a unix
// socket or a tcp connection. Addresses take the form "unix:/path/to.sock"
// or "tcp:host:port"; a bare "host:port" means tcp.
package pipe
