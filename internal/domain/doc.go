// Package domain contains the core entities and value objects for runlane.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (file system, terminal, logging)
// and contains only pure timeline logic.
//
// # Entities
//
//   - [Record]: A single execution (run) with status and start/end timestamps
//   - [Batch]: A positioned block on a timeline lane covering one or more records
//   - [Window]: The visible time range mapped onto a drawing surface
//
// # Design Principles
//
// Domain entities are:
//   - Transient: recomputed from upstream data on every render pass
//   - Free of infrastructure dependencies
//   - Focused on geometry rules and invariants
//   - Testable without mocks or external systems
package domain
