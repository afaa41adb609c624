package db

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"log/slog"

	"github.com/icco/animeprep/lib/genres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveAndLoadMatrix(t *testing.T) {
	gdb, err := Open(filepath.Join(t.TempDir(), "mirror.db"), testLogger())
	require.NoError(t, err)

	df := genres.Encode([]genres.Record{
		{AnimeID: 7, Title: "Alpha", Year: "2000", Labels: []string{"Action", "Comedy"}},
		{AnimeID: 3, Title: "Beta", Year: "", Labels: []string{"Drama"}},
		{AnimeID: 9, Title: "Gamma", Year: "2010", Labels: nil},
	})
	require.NoError(t, df.Err)

	ctx := context.Background()
	require.NoError(t, SaveMatrix(ctx, gdb, df))

	loaded, err := LoadMatrix(ctx, gdb)
	require.NoError(t, err)

	// Row order and shape survive the round trip, including the record with
	// no year and the record with no genres.
	assert.Equal(t, df.Records(), loaded.Records())
}

func TestSaveMatrix_ReplacesPreviousRun(t *testing.T) {
	gdb, err := Open(filepath.Join(t.TempDir(), "mirror.db"), testLogger())
	require.NoError(t, err)

	ctx := context.Background()
	first := genres.Encode([]genres.Record{
		{AnimeID: 1, Title: "Alpha", Year: "2000", Labels: []string{"Action"}},
		{AnimeID: 2, Title: "Beta", Year: "2001", Labels: []string{"Comedy"}},
	})
	require.NoError(t, SaveMatrix(ctx, gdb, first))

	second := genres.Encode([]genres.Record{
		{AnimeID: 5, Title: "Gamma", Year: "2002", Labels: []string{"Drama"}},
	})
	require.NoError(t, SaveMatrix(ctx, gdb, second))

	loaded, err := LoadMatrix(ctx, gdb)
	require.NoError(t, err)
	assert.Equal(t, second.Records(), loaded.Records())
}

func TestSaveMatrix_RejectsFrameWithoutIdentifiers(t *testing.T) {
	gdb, err := Open(filepath.Join(t.TempDir(), "mirror.db"), testLogger())
	require.NoError(t, err)

	df := genres.Encode(nil).Drop("animeID")
	err = SaveMatrix(context.Background(), gdb, df)
	assert.ErrorContains(t, err, "missing columns")
}
