// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose coupling
// between components in the system. Write paths emit mutation events without knowing
// which handlers will process them, enabling better separation of concerns and reducing
// circular dependencies.
//
// The primary components are:
// - MutationEvent: Represents a domain mutation (task changed, membership changed)
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
// - CacheInvalidationHandler / RecomputeHandler: the built-in reactions that keep
// the cache coherent and the performance scores current
package events
