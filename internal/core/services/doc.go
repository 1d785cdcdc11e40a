// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The core is the search session lifecycle: SessionCoordinator keeps at
// most one SearchSession live, merging engine and auxiliary (bookmark and
// mount) hits; MetadataResolver answers metas requests through ResultCache.
//
// Services are pure Go with no CGO and depend only on the ports.
package services
