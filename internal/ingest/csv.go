// Package ingest turns raw exercise CSV dumps into catalog records.
// The expected layout matches the megaGym-style export: one exercise per
// row with Title, Desc, Type, BodyPart, Equipment, Level and Rating
// columns. Header names are matched case-insensitively so the dumps do
// not need pre-cleaning.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"nutrix/workout-engine/internal/domain"
	"nutrix/workout-engine/internal/engine"
)

var ErrMissingTitleColumn = errors.New("csv is missing a Title column")

// columnIndex maps the header row into field positions. Missing optional
// columns resolve to -1.
type columnIndex struct {
	title     int
	desc      int
	exType    int
	bodyPart  int
	equipment int
	level     int
	rating    int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{title: -1, desc: -1, exType: -1, bodyPart: -1, equipment: -1, level: -1, rating: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			idx.title = i
		case "desc", "description":
			idx.desc = i
		case "type":
			idx.exType = i
		case "bodypart", "body_part":
			idx.bodyPart = i
		case "equipment":
			idx.equipment = i
		case "level":
			idx.level = i
		case "rating":
			idx.rating = i
		}
	}
	if idx.title == -1 {
		return idx, ErrMissingTitleColumn
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadRecords parses a CSV stream into catalog records. Rows with an
// empty title are skipped with a warning instead of failing the whole
// import. Duplicate titles collapse onto the same slug, last row wins.
func ReadRecords(r io.Reader, now time.Time) ([]domain.ExerciseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Some dumps have ragged trailing columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.ExerciseRecord
	bySlug := map[string]int{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", line+1, err)
		}
		line++

		title := field(row, idx.title)
		if title == "" {
			log.Printf("WARN: Skipping row %d: empty title", line)
			continue
		}

		level := normalizeLevel(field(row, idx.level))
		equipment := field(row, idx.equipment)
		if equipment == "" {
			equipment = "Bodyweight"
		}

		rating := 0.0
		if raw := field(row, idx.rating); raw != "" {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				rating = parsed
			}
		}

		record := domain.ExerciseRecord{
			ID:           domain.ExerciseSlug(title),
			Title:        title,
			Description:  field(row, idx.desc),
			BodyPart:     field(row, idx.bodyPart),
			Equipment:    equipment,
			Level:        level,
			Type:         field(row, idx.exType),
			Rating:       rating,
			IsBodyweight: strings.EqualFold(equipment, "Bodyweight"),
			IsActive:     true,
			IngestedAt:   now,
		}
		record.SafetyTags = engine.SafetyTagsFor(record)

		if prev, ok := bySlug[record.ID]; ok {
			records[prev] = record
			continue
		}
		bySlug[record.ID] = len(records)
		records = append(records, record)
	}

	return records, nil
}

// normalizeLevel folds the catalog's difficulty labels into the three
// canonical values; anything unrecognized lands on Intermediate.
func normalizeLevel(raw string) string {
	switch strings.ToLower(raw) {
	case "beginner":
		return string(domain.LevelBeginner)
	case "expert", "advanced":
		return string(domain.LevelExpert)
	default:
		return string(domain.LevelIntermediate)
	}
}
