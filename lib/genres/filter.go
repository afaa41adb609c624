package genres

import (
	"github.com/go-gota/gota/dataframe"
)

// FilteredGenres is the fixed set of adult and sensitive genre labels that
// must never appear in any output. Initialized once, never mutated.
var FilteredGenres = []string{"Ecchi", "Boys Love", "Girls Love", "Erotica", "Hentai"}

// FilterLabels returns labels without any filtered genre, preserving order.
func FilterLabels(labels []string) []string {
	filtered := make([]string, 0, len(labels))
	for _, label := range labels {
		if !isFiltered(label) {
			filtered = append(filtered, label)
		}
	}
	return filtered
}

// FilterColumns returns df without any column named after a filtered genre.
// Frames that carry none of them are returned unchanged. The filter is applied
// again on every cache load because a persisted matrix may predate the current
// filter list.
func FilterColumns(df dataframe.DataFrame) dataframe.DataFrame {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var drop []string
	for _, genre := range FilteredGenres {
		if present[genre] {
			drop = append(drop, genre)
		}
	}
	if len(drop) == 0 {
		return df
	}
	return df.Drop(drop)
}

func isFiltered(label string) bool {
	for _, genre := range FilteredGenres {
		if label == genre {
			return true
		}
	}
	return false
}
