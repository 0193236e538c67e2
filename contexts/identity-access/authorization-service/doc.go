// Package authorization implements workspace-scoped RBAC inside Scribe.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence and caching
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Do not import other context adapters into domain/application.
// - Permission checks answer false for missing memberships or roles;
//   segregation-of-duties belongs to the document lifecycle, not here.
package authorization
