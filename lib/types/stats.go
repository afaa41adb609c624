package types

// EncodeStats summarizes one encoding run of the genre pipeline. The counts
// are diagnostic only and not part of any contract.
type EncodeStats struct {
	TotalRecords      int
	WithGenres        int
	DroppedNoGenres   int
	SkippedBadID      int
	UniqueGenres      int
	GenreDistribution []GenreCount
}

// GenreCount is the number of records carrying one genre, post-filter.
type GenreCount struct {
	Genre string
	Count int64
}
