package persistence

import (
	"time"
)

// MovieModel represents the movies table
type MovieModel struct {
	ID           int        `gorm:"column:id;primaryKey;autoIncrement"`
	Title        string     `gorm:"column:title;size:200;not null"`
	EpisodeID    int        `gorm:"column:episode_id;uniqueIndex:idx_movies_episode_id;not null"`
	OpeningCrawl string     `gorm:"column:opening_crawl;type:text;not null"`
	Director     string     `gorm:"column:director;size:100;not null"`
	Producer     string     `gorm:"column:producer;size:200;not null"`
	ReleaseDate  time.Time  `gorm:"column:release_date"`
	Characters   string     `gorm:"column:characters;type:text"` // JSON array as text
	Planets      string     `gorm:"column:planets;type:text"`    // JSON array as text
	Starships    string     `gorm:"column:starships;type:text"`  // JSON array as text
	Vehicles     string     `gorm:"column:vehicles;type:text"`   // JSON array as text
	Species      string     `gorm:"column:species;type:text"`    // JSON array as text
	CreatedAt    time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt    *time.Time `gorm:"column:updated_at;autoUpdateTime:false"` // nil until the first update
	URL          *string    `gorm:"column:url"`
}

func (MovieModel) TableName() string {
	return "movies"
}

// UserModel represents the users table
type UserModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex:idx_users_email;not null"`
	FirstName    string    `gorm:"column:first_name;size:100;not null"`
	LastName     string    `gorm:"column:last_name;size:100;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Roles        string    `gorm:"column:roles;type:text"` // JSON array as text
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (UserModel) TableName() string {
	return "users"
}
