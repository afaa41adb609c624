// Command animeprep runs the genre preparation pipeline end to end as a smoke
// check: load or compute the one-hot matrix, optionally mirror it to SQLite,
// then aggregate genre prevalence by year. Output is diagnostic only.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/icco/animeprep/lib/dataset"
	"github.com/icco/animeprep/lib/db"
	"github.com/icco/animeprep/lib/trends"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := dataset.Config{
		CatalogPath: envOr("ANIMES_CSV", dataset.DefaultCatalogPath),
		CachePath:   envOr("GENRES_ONEHOT_CSV", dataset.DefaultCachePath),
		Persist:     os.Getenv("ANIMEPREP_NO_PERSIST") == "",
		Logger:      logger,
	}

	ctx := context.Background()
	matrix, err := dataset.LoadOrProcess(ctx, cfg)
	if err != nil {
		logger.Error("Failed to load one-hot matrix", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("one-hot matrix: %d rows x %d cols\n", matrix.Nrow(), matrix.Ncol())
	printHead(matrix, 5)

	if path := os.Getenv("ANIMEPREP_DB"); path != "" {
		gdb, err := db.Open(path, logger)
		if err != nil {
			logger.Error("Failed to open mirror database", slog.Any("error", err))
			os.Exit(1)
		}
		if err := db.SaveMatrix(ctx, gdb, matrix); err != nil {
			logger.Error("Failed to mirror matrix", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Mirrored matrix to SQLite", slog.String("path", path))
	}

	byYear, err := trends.ByYear(matrix)
	if err != nil {
		logger.Error("Failed to aggregate genres by year", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("genres by year: %d rows x %d cols\n", byYear.Nrow(), byYear.Ncol())
	printHead(byYear, 5)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printHead prints the header and the first n rows, truncated to the first
// few columns so wide matrices stay readable.
func printHead(df dataframe.DataFrame, n int) {
	records := df.Records()
	if len(records) > n+1 {
		records = records[:n+1]
	}
	for _, row := range records {
		if len(row) > 8 {
			row = append(row[:8:8], "...")
		}
		fmt.Println(strings.Join(row, ","))
	}
}
