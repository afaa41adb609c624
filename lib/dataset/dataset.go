// Package dataset orchestrates the load-or-compute path for the one-hot genre
// matrix: read the cached CSV when it exists, otherwise parse and encode the
// raw catalog and persist the result.
package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/icco/animeprep/lib/genres"
	"github.com/icco/animeprep/lib/lock"
	"github.com/icco/animeprep/lib/types"
	"github.com/icco/animeprep/lib/validation"
)

// Default file locations, relative to the working directory.
const (
	DefaultCatalogPath = "./datas/animes.csv"
	DefaultCachePath   = "./datas/generos_onehot.csv"
)

// lockTimeout bounds how long a regeneration waits on another process.
const lockTimeout = 10 * time.Second

// Config holds the two file paths and the persistence switch.
type Config struct {
	CatalogPath string
	CachePath   string
	Persist     bool
	Logger      *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.CatalogPath == "" {
		c.CatalogPath = DefaultCatalogPath
	}
	if c.CachePath == "" {
		c.CachePath = DefaultCachePath
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// LoadOrProcess returns the one-hot genre matrix, reading the cached copy when
// present and building it from the raw catalog otherwise.
//
// A cached matrix may predate the current adult-genre filter list, so the column
// filter is re-applied on every load. Columns removed that way are simply
// dropped; the parser and encoder are not re-run.
func LoadOrProcess(ctx context.Context, cfg Config) (dataframe.DataFrame, error) {
	cfg = cfg.withDefaults()

	if _, err := os.Stat(cfg.CachePath); err == nil {
		return loadCache(cfg)
	} else if !os.IsNotExist(err) {
		return dataframe.DataFrame{}, fmt.Errorf("failed to stat cache file: %w", err)
	}

	cfg.Logger.Info("Cache not found, processing catalog",
		slog.String("catalog", cfg.CatalogPath),
		slog.String("cache", cfg.CachePath))

	df, _, err := Process(cfg)
	if err != nil {
		return df, err
	}
	if cfg.Persist {
		if err := persist(ctx, cfg, df); err != nil {
			return df, err
		}
	}
	return df, nil
}

// Process builds the matrix from the raw catalog without consulting the
// cache. Records with an empty genres cell are excluded before encoding.
func Process(cfg Config) (dataframe.DataFrame, types.EncodeStats, error) {
	cfg = cfg.withDefaults()

	records, stats, err := readCatalog(cfg.CatalogPath, cfg.Logger)
	if err != nil {
		return dataframe.DataFrame{}, stats, err
	}

	df := genres.Encode(records)
	if df.Err != nil {
		return df, stats, fmt.Errorf("failed to build one-hot matrix: %w", df.Err)
	}
	stats.UniqueGenres = len(genres.GenreColumns(df.Names()))

	cfg.Logger.Info("Built one-hot matrix",
		slog.Int("rows", df.Nrow()),
		slog.Int("cols", df.Ncol()),
		slog.Int("unique_genres", stats.UniqueGenres),
		slog.Int("dropped_no_genres", stats.DroppedNoGenres))
	return df, stats, nil
}

// loadCache reads a persisted matrix and re-applies the adult-genre filter.
func loadCache(cfg Config) (dataframe.DataFrame, error) {
	f, err := os.Open(cfg.CachePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			cfg.Logger.Error("Failed to close cache file", slog.Any("error", err))
		}
	}()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String))
	if df.Err != nil {
		return df, fmt.Errorf("failed to read cache file: %w", df.Err)
	}

	before := df.Ncol()
	df = genres.FilterColumns(df)
	if removed := before - df.Ncol(); removed > 0 {
		cfg.Logger.Warn("Removed adult genre columns from stale cache",
			slog.Int("removed", removed))
	}

	cfg.Logger.Info("Loaded cached one-hot matrix",
		slog.String("path", cfg.CachePath),
		slog.Int("rows", df.Nrow()),
		slog.Int("cols", df.Ncol()))
	return df, nil
}

// readCatalog reads the raw catalog and returns one Record per entry with a
// non-empty genres cell, labels parsed and filtered.
func readCatalog(path string, logger *slog.Logger) ([]genres.Record, types.EncodeStats, error) {
	var stats types.EncodeStats

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("Failed to close catalog file", slog.Any("error", err))
		}
	}()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String))
	if df.Err != nil {
		return nil, stats, fmt.Errorf("failed to read catalog: %w", df.Err)
	}
	if err := validation.ValidateCatalogHeader(df.Names()); err != nil {
		return nil, stats, err
	}

	idx := make(map[string]int, df.Ncol())
	for i, name := range df.Names() {
		idx[name] = i
	}

	rows := df.Records()[1:]
	stats.TotalRecords = len(rows)
	counts := make(map[string]int64)

	records := make([]genres.Record, 0, len(rows))
	for _, row := range rows {
		cell := strings.TrimSpace(row[idx["genres"]])
		if cell == "" {
			stats.DroppedNoGenres++
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[idx[genres.ColAnimeID]]))
		if err != nil {
			logger.Warn("Skipping record with non-integer animeID",
				slog.String("animeID", row[idx[genres.ColAnimeID]]))
			stats.SkippedBadID++
			continue
		}

		labels := genres.FilterLabels(genres.ParseLabels(cell))
		for _, label := range labels {
			counts[label]++
		}
		records = append(records, genres.Record{
			AnimeID: id,
			Title:   row[idx[genres.ColTitle]],
			Year:    strings.TrimSpace(row[idx[genres.ColYear]]),
			Labels:  labels,
		})
	}

	stats.WithGenres = len(records)
	stats.GenreDistribution = distribution(counts)
	return records, stats, nil
}

// persist writes the matrix to the cache path, creating missing parent
// directories. The file lock keeps two concurrent invocations from
// interleaving writes to the same cache.
func persist(ctx context.Context, cfg Config, df dataframe.DataFrame) error {
	fl := lock.New(cfg.Logger)
	acquired, err := fl.TryLock(ctx, cfg.CachePath, lockTimeout)
	if err != nil {
		return fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("timed out waiting for cache lock on %s", cfg.CachePath)
	}
	defer func() {
		if err := fl.Unlock(cfg.CachePath); err != nil {
			cfg.Logger.Error("Failed to release cache lock", slog.Any("error", err))
		}
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	cfg.Logger.Info("Persisted one-hot matrix", slog.String("path", cfg.CachePath))
	return nil
}

// distribution orders genre counts by frequency, ties broken by name.
func distribution(counts map[string]int64) []types.GenreCount {
	dist := make([]types.GenreCount, 0, len(counts))
	for genre, count := range counts {
		dist = append(dist, types.GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Genre < dist[j].Genre
	})
	return dist
}
