// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The central use case here is the scoring pipeline: PerformanceService
// recomputes a user's per-team performance scores from the complete
// current task set, persists them in one batched transactional write,
// pushes the results into team member summaries and keeps the cache
// coherent through the invalidation coordinator.
//
// Services define their repository dependencies as interfaces in this
// package and receive them through constructor injection; adapter types
// bridge the store interfaces to these consumer-side contracts. The
// service layer depends on domain entities and repository interfaces,
// never on specific infrastructure implementations.
package service
