// Package driven defines interfaces for infrastructure the core
// depends on - the "driven" ports in hexagonal architecture
// terminology. Storage and configuration adapters implement these.
package driven
