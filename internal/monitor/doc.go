// Package monitor implements the host's monitor server and its command
// dispatcher.
//
// Monitor items are named producers of state snapshots. The server
// instantiates registered item types on request, assembles their snapshots
// into frames, and can stream frames to observers over socket.io. Observers
// send commands back, which the Dispatcher hands to every registered command
// parser.
package monitor
