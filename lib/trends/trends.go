// Package trends derives the per-year genre prevalence report from a one-hot
// matrix.
package trends

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/icco/animeprep/lib/genres"
	"github.com/icco/animeprep/lib/validation"
)

// MinYear and MaxYear bound the aggregation window. Records outside it are
// silently excluded.
const (
	MinYear = 1970
	MaxYear = 2024
)

// ByYear computes the mean indicator value of every genre column per year.
// The adult-genre filter is applied first in case the matrix came from a
// stale cache. Records with a blank or unparseable year are skipped. The
// result has one row per year present, ascending, with a year column followed
// by one float column per genre; every mean lies in [0, 1].
func ByYear(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	df = genres.FilterColumns(df)

	names := df.Names()
	if err := validation.ValidateMatrixHeader(names); err != nil {
		return dataframe.DataFrame{}, err
	}
	genreCols := genres.GenreColumns(names)

	idx := make(map[string]int, len(names))
	for i, name := range names {
		idx[name] = i
	}

	sums := make(map[int][]float64)
	counts := make(map[int]int)
	for _, row := range df.Records()[1:] {
		year, ok := genres.ParseYear(row[idx[genres.ColYear]])
		if !ok || year < MinYear || year > MaxYear {
			continue
		}

		s := sums[year]
		if s == nil {
			s = make([]float64, len(genreCols))
			sums[year] = s
		}
		counts[year]++

		for j, col := range genreCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx[col]]), 64)
			if err == nil {
				s[j] += v
			}
		}
	}

	years := make([]int, 0, len(sums))
	for year := range sums {
		years = append(years, year)
	}
	sort.Ints(years)

	ss := []series.Series{series.New(years, series.Int, genres.ColYear)}
	for j, col := range genreCols {
		means := make([]float64, len(years))
		for i, year := range years {
			means[i] = sums[year][j] / float64(counts[year])
		}
		ss = append(ss, series.New(means, series.Float, col))
	}

	out := dataframe.New(ss...)
	if out.Err != nil {
		return out, fmt.Errorf("failed to build aggregation frame: %w", out.Err)
	}
	return out, nil
}
