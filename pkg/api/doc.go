// Package api defines the public types of the stato state container:
// the Store interface, reducers and actions, completion futures, the
// listener hub, the observer family used for logging and metrics, and
// the history contract.
//
// Application code normally imports the root stato package, which
// re-exports everything here and adds constructors; api exists so that
// the internal engine and alternative backends can share one vocabulary
// without import cycles.
package api
