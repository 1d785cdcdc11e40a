// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SearchEngine / EngineFactory: Produces hits for a query, asynchronously
//   - HitScorer: Computes comparable relevance for every hit
//   - MetadataSource: Resolves URIs to display names and icons
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - BookmarkSource: Bookmarks matched by name. Without it, no bookmark hits.
//   - VolumeMonitor: Mounts matched by label. Without it, no volume hits.
//   - URIOpener: Opens activated results. Without it, activation is logged only.
//   - ActivityHold: Keeps the process alive while work is pending.
//   - SearchMetrics: Session and cache counters.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
