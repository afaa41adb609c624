package validation

import (
	"fmt"
	"strings"

	"github.com/icco/animeprep/lib/genres"
)

// catalogColumns are the columns the encoding pipeline reads from the raw
// catalog.
var catalogColumns = []string{genres.ColAnimeID, genres.ColTitle, genres.ColYear, "genres"}

// ValidateCatalogHeader checks that the raw catalog carries every column the
// encoding pipeline reads. Returns an error naming the missing columns.
func ValidateCatalogHeader(names []string) error {
	return requireColumns(names, catalogColumns, "catalog")
}

// ValidateMatrixHeader checks that a one-hot matrix carries the identification
// columns the aggregator and the mirror rely on.
func ValidateMatrixHeader(names []string) error {
	return requireColumns(names, genres.IdentifierColumns, "matrix")
}

func requireColumns(names, required []string, what string) error {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid %s header: missing columns %s", what, strings.Join(missing, ", "))
	}
	return nil
}
