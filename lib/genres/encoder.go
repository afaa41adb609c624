package genres

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Identification column names shared by the catalog, the one-hot matrix and
// the mirror.
const (
	ColAnimeID = "animeID"
	ColTitle   = "title"
	ColYear    = "year"
)

// IdentifierColumns lists the non-indicator columns of a one-hot matrix.
var IdentifierColumns = []string{ColAnimeID, ColTitle, ColYear}

// Record is one catalog entry with its genre labels already parsed and
// filtered. Year keeps the raw cell text since the source may omit it.
type Record struct {
	AnimeID int
	Title   string
	Year    string
	Labels  []string
}

// Encode builds the multi-label one-hot matrix for the given records. The
// vocabulary is the union of all label lists, one indicator column per label
// in lexicographic order, after the three identification columns. Row order
// follows the input, one row per record.
func Encode(records []Record) dataframe.DataFrame {
	vocab := make(map[string]struct{})
	for _, r := range records {
		for _, label := range r.Labels {
			vocab[label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(vocab))
	for label := range vocab {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	ids := make([]int, len(records))
	titles := make([]string, len(records))
	years := make([]string, len(records))
	indicators := make(map[string][]int, len(labels))
	for _, label := range labels {
		indicators[label] = make([]int, len(records))
	}
	for i, r := range records {
		ids[i] = r.AnimeID
		titles[i] = r.Title
		years[i] = r.Year
		for _, label := range r.Labels {
			indicators[label][i] = 1
		}
	}

	ss := []series.Series{
		series.New(ids, series.Int, ColAnimeID),
		series.New(titles, series.String, ColTitle),
		series.New(years, series.String, ColYear),
	}
	for _, label := range labels {
		ss = append(ss, series.New(indicators[label], series.Int, label))
	}
	return dataframe.New(ss...)
}

// GenreColumns returns the indicator column names of a one-hot matrix header,
// in header order.
func GenreColumns(names []string) []string {
	identifiers := make(map[string]bool, len(IdentifierColumns))
	for _, c := range IdentifierColumns {
		identifiers[c] = true
	}
	var cols []string
	for _, name := range names {
		if !identifiers[name] {
			cols = append(cols, name)
		}
	}
	return cols
}
