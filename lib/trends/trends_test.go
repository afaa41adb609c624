package trends

import (
	"testing"

	"github.com/icco/animeprep/lib/genres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByYear_MeansPerYear(t *testing.T) {
	df := genres.Encode([]genres.Record{
		{AnimeID: 1, Title: "A", Year: "2000", Labels: []string{"Action"}},
		{AnimeID: 2, Title: "B", Year: "2000", Labels: []string{"Comedy"}},
		{AnimeID: 3, Title: "C", Year: "2010", Labels: []string{"Action", "Comedy"}},
	})
	require.NoError(t, df.Err)

	out, err := ByYear(df)
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "Action", "Comedy"}, out.Names())
	assert.Equal(t, 2, out.Nrow())

	assert.Equal(t, []float64{2000, 2010}, out.Col("year").Float())
	action := out.Col("Action").Float()
	comedy := out.Col("Comedy").Float()
	assert.InDelta(t, 0.5, action[0], 1e-9)
	assert.InDelta(t, 0.5, comedy[0], 1e-9)
	assert.InDelta(t, 1.0, action[1], 1e-9)
	assert.InDelta(t, 1.0, comedy[1], 1e-9)
}

func TestByYear_ExcludesOutOfRangeAndBlankYears(t *testing.T) {
	df := genres.Encode([]genres.Record{
		{AnimeID: 1, Title: "A", Year: "1969", Labels: []string{"Action"}},
		{AnimeID: 2, Title: "B", Year: "2025", Labels: []string{"Action"}},
		{AnimeID: 3, Title: "C", Year: "", Labels: []string{"Action"}},
		{AnimeID: 4, Title: "D", Year: "1970", Labels: []string{"Action"}},
		{AnimeID: 5, Title: "E", Year: "2024", Labels: []string{"Action"}},
	})
	require.NoError(t, df.Err)

	out, err := ByYear(df)
	require.NoError(t, err)

	assert.Equal(t, []float64{1970, 2024}, out.Col("year").Float())
}

func TestByYear_FiltersStaleColumns(t *testing.T) {
	// A matrix straight from an old cache may still carry adult genre columns.
	df := genres.Encode([]genres.Record{
		{AnimeID: 1, Title: "A", Year: "2000", Labels: []string{"Action", "Hentai"}},
	})
	require.NoError(t, df.Err)

	out, err := ByYear(df)
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "Action"}, out.Names())
}

func TestByYear_MeansWithinBounds(t *testing.T) {
	df := genres.Encode([]genres.Record{
		{AnimeID: 1, Title: "A", Year: "1990", Labels: []string{"Action"}},
		{AnimeID: 2, Title: "B", Year: "1990", Labels: nil},
		{AnimeID: 3, Title: "C", Year: "1990", Labels: []string{"Action", "Drama"}},
		{AnimeID: 4, Title: "D", Year: "1991", Labels: []string{"Drama"}},
	})
	require.NoError(t, df.Err)

	out, err := ByYear(df)
	require.NoError(t, err)

	for _, col := range genres.GenreColumns(out.Names()) {
		for _, v := range out.Col(col).Float() {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestByYear_MissingIdentifierColumns(t *testing.T) {
	df := genres.Encode(nil)
	require.NoError(t, df.Err)

	out, err := ByYear(df.Drop("year"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	_ = out
}
