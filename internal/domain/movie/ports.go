package movie

import "context"

// MovieRepository defines movie persistence operations.
//
// Lookups that find nothing return (nil, nil). GetAll returns movies in a
// stable storage order (ascending identifier).
type MovieRepository interface {
	GetAll(ctx context.Context) ([]*Movie, error)
	GetByID(ctx context.Context, id int) (*Movie, error)
	GetOne(ctx context.Context, spec Specification) (*Movie, error)
	Find(ctx context.Context, spec Specification) ([]*Movie, error)
	// Add persists a new movie and assigns its identifier
	Add(ctx context.Context, m *Movie) error
	Update(ctx context.Context, m *Movie) error
	// DeleteByID reports whether a movie existed and was removed
	DeleteByID(ctx context.Context, id int) (bool, error)
	Exists(ctx context.Context, spec Specification) (bool, error)
}

// FilmSource is the upstream catalog that synchronization pulls from
type FilmSource interface {
	// GetFilms returns the complete upstream film list, all pages exhausted
	GetFilms(ctx context.Context) ([]Film, error)
}

// Film is an upstream film record
type Film struct {
	Title        string
	EpisodeID    int
	OpeningCrawl string
	Director     string
	Producer     string
	// ReleaseDate is kept in the upstream string form
	ReleaseDate string
	References
	URL string
}
