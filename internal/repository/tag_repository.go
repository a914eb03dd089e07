package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// EnsureTags records every name not yet known. Names are matched
// case-insensitively and the first spelling seen is kept.
func (r *TagRepository) EnsureTags(ctx context.Context, names []string) error {
	seen := make(map[string]struct{}, len(names))
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, model.Tag{Name: name, NameKey: key})
	}
	if len(tags) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).
		Create(&tags).Error
}

// List returns all tag names ordered case-insensitively
func (r *TagRepository) List(ctx context.Context) ([]string, error) {
	names := []string{}
	result := r.db.WithContext(ctx).Model(&model.Tag{}).
		Order("name_key").
		Pluck("name", &names)
	if result.Error != nil {
		return nil, result.Error
	}
	return names, nil
}
