package movie

// Notifications published after catalog mutations have been committed

type MovieCreated struct {
	MovieID   int
	EpisodeID int
	Title     string
	UserID    string
}

type MovieUpdated struct {
	MovieID   int
	EpisodeID int
	Title     string
	UserID    string
}

type MovieDeleted struct {
	MovieID int
	UserID  string
}

type MoviesSynced struct {
	Created int
	Updated int
	UserID  string
}
