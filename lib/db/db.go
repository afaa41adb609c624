// Package db mirrors the encoded genre matrix into SQLite in normalized form,
// one animes row per record plus one anime_genres row per set indicator.
package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/icco/animeprep/lib/genres"
	"github.com/icco/animeprep/lib/validation"
	"github.com/icco/animeprep/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens the mirror database, creating it and its schema if needed.
func Open(path string, logger *slog.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	if err := gdb.AutoMigrate(&models.Anime{}, &models.AnimeGenre{}); err != nil {
		return nil, fmt.Errorf("failed to migrate mirror schema: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := gdb.Exec(pragma).Error; err != nil {
			logger.Warn("Failed to execute pragma",
				slog.String("pragma", pragma), slog.Any("error", err))
		}
	}

	return gdb, nil
}

// SaveMatrix replaces the mirrored matrix with the given one-hot frame.
func SaveMatrix(ctx context.Context, gdb *gorm.DB, df dataframe.DataFrame) error {
	names := df.Names()
	if err := validation.ValidateMatrixHeader(names); err != nil {
		return err
	}
	genreCols := genres.GenreColumns(names)

	idx := make(map[string]int, len(names))
	for i, name := range names {
		idx[name] = i
	}

	rows := df.Records()[1:]
	entries := make([]models.Anime, 0, len(rows))
	var flags []models.AnimeGenre
	for i, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[idx[genres.ColAnimeID]]))
		if err != nil {
			return fmt.Errorf("failed to parse animeID %q: %w", row[idx[genres.ColAnimeID]], err)
		}

		entry := models.Anime{
			AnimeID:  id,
			Position: i,
			Title:    row[idx[genres.ColTitle]],
		}
		if year, ok := genres.ParseYear(row[idx[genres.ColYear]]); ok {
			entry.Year = &year
		}
		entries = append(entries, entry)

		for _, col := range genreCols {
			if strings.TrimSpace(row[idx[col]]) == "1" {
				flags = append(flags, models.AnimeGenre{AnimeID: id, Genre: col})
			}
		}
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM anime_genres").Error; err != nil {
			return fmt.Errorf("failed to clear anime_genres: %w", err)
		}
		if err := tx.Exec("DELETE FROM animes").Error; err != nil {
			return fmt.Errorf("failed to clear animes: %w", err)
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, 500).Error; err != nil {
				return fmt.Errorf("failed to insert animes: %w", err)
			}
		}
		if len(flags) > 0 {
			if err := tx.CreateInBatches(flags, 500).Error; err != nil {
				return fmt.Errorf("failed to insert anime_genres: %w", err)
			}
		}
		return nil
	})
}

// LoadMatrix rebuilds the one-hot frame from the mirror, preserving the
// stored row order. The vocabulary is the distinct stored genres, sorted, so
// the frame has the same shape the encoder produced.
func LoadMatrix(ctx context.Context, gdb *gorm.DB) (dataframe.DataFrame, error) {
	var entries []models.Anime
	if err := gdb.WithContext(ctx).Order("position").Find(&entries).Error; err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load animes: %w", err)
	}

	var flags []models.AnimeGenre
	if err := gdb.WithContext(ctx).Find(&flags).Error; err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load anime_genres: %w", err)
	}

	byID := make(map[int][]string, len(entries))
	for _, flag := range flags {
		byID[flag.AnimeID] = append(byID[flag.AnimeID], flag.Genre)
	}

	records := make([]genres.Record, len(entries))
	for i, entry := range entries {
		var year string
		if entry.Year != nil {
			year = strconv.Itoa(*entry.Year)
		}
		records[i] = genres.Record{
			AnimeID: entry.AnimeID,
			Title:   entry.Title,
			Year:    year,
			Labels:  byID[entry.AnimeID],
		}
	}

	df := genres.Encode(records)
	if df.Err != nil {
		return df, fmt.Errorf("failed to rebuild one-hot matrix: %w", df.Err)
	}
	return df, nil
}
