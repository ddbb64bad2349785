// Package gamecontrol implements the host's game-control server and its
// control aspects.
//
// Aspect types are registered by name as factories when the host starts.
// InitControlAspect instantiates one, passing it the parameter registry, and
// mounts it in the host tree under the server's path so it can be found by
// absolute path (e.g. "/sys/server/gamecontrol/GameStateAspect").
package gamecontrol
