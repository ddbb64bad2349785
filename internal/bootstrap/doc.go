// Package bootstrap runs the soccer simulation's fixed startup sequence: it
// imports content, seeds randomness, registers the parameter catalogue and
// wires the optional host services that consume it.
//
// Optional services are looked up by path on the Host. A missing service
// skips its step; an error returned by a present service fails the run.
// Importing the soccer bundle and registering the trainer command parser
// are mandatory.
package bootstrap
