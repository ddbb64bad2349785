// Package app wires the in-process simulator host, runs the bootstrap
// sequence against it and serves the result: a parameter dump, an optional
// socket.io monitor, an optional SQLite game log and a health check.
package app
