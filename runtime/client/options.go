package client

// DefaultIDColumn is the identifier column assumed by the *ByID operations
// when the option is left empty.
const DefaultIDColumn = "id"

// CreateOptions configures Create and CreateMany.
type CreateOptions struct {
	// Returning names a column to return from the inserted row(s).
	Returning string
}

// ReadOptions configures Read and ReadOne. All fields are optional.
type ReadOptions struct {
	Columns    []string // projection; nil means *
	OrderBy    string
	Descending bool
	Limit      int // ignored by ReadOne, which always limits to 1
	Offset     int
}

// ByIDOptions configures ReadByID.
type ByIDOptions struct {
	IDColumn string // defaults to DefaultIDColumn
	Columns  []string
}

// MutateOptions configures Update and Delete.
type MutateOptions struct {
	Returning string
}

// MutateByIDOptions configures UpdateByID and DeleteByID.
type MutateByIDOptions struct {
	IDColumn  string // defaults to DefaultIDColumn
	Returning string
}

// QueryOptions configures ExecuteQuery.
type QueryOptions struct {
	// NoFetch skips result retrieval for statements with no meaningful
	// result set.
	NoFetch bool
	// AsRecords shapes rows as column-name→value Records instead of the
	// default positional Tuples.
	AsRecords bool
}

func idColumn(name string) string {
	if name == "" {
		return DefaultIDColumn
	}
	return name
}
