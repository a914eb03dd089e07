package model

// Tag is a remembered tag name offered as a suggestion.
// NameKey is the lower-cased name used for case-insensitive uniqueness.
type Tag struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"not null"`
	NameKey string `gorm:"not null;uniqueIndex"`
}
