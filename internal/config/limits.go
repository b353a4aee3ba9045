package config

const (
	// MaxAssetNameLength is the maximum length for asset names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxAssetNameLength = 255

	// MaxAssetPathLength is the maximum length for full materialized
	// paths. Longer paths indicate overly deep hierarchies.
	MaxAssetPathLength = 4096

	// MaxBatchSize bounds how many asset ids a single move/copy request
	// may carry. Everything in a batch shares one transaction, so the
	// bound also caps transaction length.
	MaxBatchSize = 500
)
