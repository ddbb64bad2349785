// Package params provides the namespaced parameter registry populated during
// bootstrap.
//
// A parameter is a (namespace, name, value) triple whose value is a number, a
// bool or a string. Values are stored as cty values so they can be converted
// into typed Go records with gocty, and the registry remembers registration
// order so that dumps are stable. Once bootstrap finishes the registry is
// frozen and becomes read-only process configuration.
package params
