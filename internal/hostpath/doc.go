// Package hostpath parses and normalizes the hierarchical paths under which
// the simulation host exposes its services, e.g. "/sys/server/monitor" or
// "/sys/server/gamecontrol/GameStateAspect".
//
// Paths are absolute and slash separated. A trailing slash is accepted so
// that configured prefixes such as "/sys/server/" can be concatenated with a
// service name the way the startup scripts do.
package hostpath
