// Package pgcrud is a convenience access layer over PostgreSQL.
//
// It offers typed CRUD operations (create/read/update/delete, existence and
// count checks, raw query execution) built on parameterized SQL generation
// and an optional connection pool. Values are always bound as positional
// parameters, never interpolated into SQL text. Every public operation runs
// in its own implicit transaction: committed on success, rolled back on
// failure.
//
// The package itself holds the shared error taxonomy; the working pieces
// live in the subpackages:
//
//   - runtime/types: the closed value variant and shaped row types
//   - query/sqlgen: condition compilation and statement building
//   - query/executor: transactional execution and row shaping
//   - runtime/client: the public Driver (connection lifecycle, CRUD surface)
package pgcrud
