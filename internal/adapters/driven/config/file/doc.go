// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// ConfigStore keeps the TM engine's settings in a TOML file under the
// memoria config directory.
package file
