// Package models defines domain entities and persistence interfaces for the Recordium catalog.
//
// The catalog holds five linked entity types:
//
//   - [User] : the owning account, resolved by external account identifier
//   - [Space] : a top-level grouping container owned by a User
//   - [Box] : a named sub-collection within a Space holding Album memberships
//   - [Album] : a denormalized record of a music release sourced from an external catalog
//   - [UserSettings] : one-to-one display and sync preferences for a User
//
// Ownership runs downward (User → Space → Box) with cascade deletion in the
// same direction. Box↔Album membership is a non-owning many-to-many link:
// removing an album from a box never deletes the album record.
//
// Back-references (Space→User, Box→Space) are realized as identifier fields
// rather than raw pointers; the catalog layer keeps both sides of each
// relationship consistent on every mutation.
//
// All entities implement the [Model] interface providing ID generation,
// timestamps, validation, and soft delete support. The [Repository]
// interface defines standard CRUD operations for database access.
package models
