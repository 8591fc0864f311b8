// Package domain defines the core types of the translation memory engine.
//
// The central type is TranslationUnit, one source/target sentence pair
// inside a named TM store. Domain types carry no persistence or transport
// concerns; adapters map them to storage.
package domain
