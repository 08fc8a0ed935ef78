// Package download holds the metadata lookup and the download orchestration shim.
//
// Both are leaves over an engine.Engine: they translate quality tiers into format
// selections, reshape engine responses for display and collapse every engine
// failure into a generic sentinel error. All network and file I/O is delegated.
package download
