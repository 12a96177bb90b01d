package movie

import "strings"

// Specification is a predicate over movies. Storage adapters translate the
// concrete specifications below into native queries and fall back to
// IsSatisfiedBy for anything they do not recognise.
type Specification interface {
	IsSatisfiedBy(m *Movie) bool
}

// ByID matches the movie with the given identifier
type ByID struct {
	ID int
}

func (s ByID) IsSatisfiedBy(m *Movie) bool {
	return m.ID == s.ID
}

// ByEpisodeID matches movies carrying the given episode identifier
type ByEpisodeID struct {
	EpisodeID int
}

func (s ByEpisodeID) IsSatisfiedBy(m *Movie) bool {
	return m.EpisodeID == s.EpisodeID
}

// EpisodeTakenByOther matches movies, other than ExcludeID, that already
// hold EpisodeID.
type EpisodeTakenByOther struct {
	EpisodeID int
	ExcludeID int
}

func (s EpisodeTakenByOther) IsSatisfiedBy(m *Movie) bool {
	return m.EpisodeID == s.EpisodeID && m.ID != s.ExcludeID
}

// TitleOrDirectorContains is a case-insensitive substring match on title or
// director. Folding is ordinal, not locale aware.
type TitleOrDirectorContains struct {
	Term string
}

func (s TitleOrDirectorContains) IsSatisfiedBy(m *Movie) bool {
	term := strings.ToLower(s.Term)
	return strings.Contains(strings.ToLower(m.Title), term) ||
		strings.Contains(strings.ToLower(m.Director), term)
}
