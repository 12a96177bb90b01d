package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/movie"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// GormMovieRepository implements MovieRepository using GORM
type GormMovieRepository struct {
	db *gorm.DB
}

// NewGormMovieRepository creates a new GORM movie repository
func NewGormMovieRepository(db *gorm.DB) *GormMovieRepository {
	return &GormMovieRepository{db: db}
}

// GetAll retrieves every movie ordered by id
func (r *GormMovieRepository) GetAll(ctx context.Context) ([]*movie.Movie, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return r.modelsToMovies(models)
}

// GetByID retrieves a movie by id, or nil if it does not exist
func (r *GormMovieRepository) GetByID(ctx context.Context, id int) (*movie.Movie, error) {
	var model MovieModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find movie: %w", result.Error)
	}
	return r.modelToMovie(&model)
}

// GetOne retrieves the first movie matching spec, or nil
func (r *GormMovieRepository) GetOne(ctx context.Context, spec movie.Specification) (*movie.Movie, error) {
	movies, err := r.Find(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return movies[0], nil
}

// Find retrieves all movies matching spec ordered by id
func (r *GormMovieRepository) Find(ctx context.Context, spec movie.Specification) ([]*movie.Movie, error) {
	query, native := applySpecification(r.db.WithContext(ctx).Order("id ASC"), spec)

	var models []MovieModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}

	movies, err := r.modelsToMovies(models)
	if err != nil || native {
		return movies, err
	}

	// Unknown specification: filter in memory
	matched := make([]*movie.Movie, 0, len(movies))
	for _, m := range movies {
		if spec.IsSatisfiedBy(m) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// Exists reports whether any movie matches spec
func (r *GormMovieRepository) Exists(ctx context.Context, spec movie.Specification) (bool, error) {
	query, native := applySpecification(r.db.WithContext(ctx).Model(&MovieModel{}), spec)
	if !native {
		found, err := r.GetOne(ctx, spec)
		return found != nil, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count movies: %w", err)
	}
	return count > 0, nil
}

// Add inserts a movie and assigns its generated id
func (r *GormMovieRepository) Add(ctx context.Context, m *movie.Movie) error {
	model, err := r.movieToModel(m)
	if err != nil {
		return fmt.Errorf("failed to convert movie to model: %w", err)
	}
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateWriteError("failed to add movie", m.EpisodeID, err)
	}

	m.ID = model.ID
	return nil
}

// Update overwrites every column of an existing movie
func (r *GormMovieRepository) Update(ctx context.Context, m *movie.Movie) error {
	model, err := r.movieToModel(m)
	if err != nil {
		return fmt.Errorf("failed to convert movie to model: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&MovieModel{}).Where("id = ?", m.ID).Select("*").Updates(model)
	if result.Error != nil {
		return translateWriteError("failed to update movie", m.EpisodeID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("movie %d not found", m.ID)
	}
	return nil
}

// DeleteByID hard-deletes a movie and reports whether one was removed
func (r *GormMovieRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete movie: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// applySpecification translates known specifications into SQL. The boolean
// is false when the caller must filter in memory.
func applySpecification(query *gorm.DB, spec movie.Specification) (*gorm.DB, bool) {
	switch s := spec.(type) {
	case movie.ByID:
		return query.Where("id = ?", s.ID), true
	case movie.ByEpisodeID:
		return query.Where("episode_id = ?", s.EpisodeID), true
	case movie.EpisodeTakenByOther:
		return query.Where("episode_id = ? AND id <> ?", s.EpisodeID, s.ExcludeID), true
	case movie.TitleOrDirectorContains:
		pattern := "%" + escapeLike(strings.ToLower(s.Term)) + "%"
		return query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(director) LIKE ? ESCAPE '\'`, pattern, pattern), true
	default:
		return query, false
	}
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// translateWriteError maps unique index violations onto the conflict kind
func translateWriteError(message string, episodeID int, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &shared.DomainError{
			Kind:    shared.ErrConflict,
			Message: fmt.Sprintf("a movie with episode id %d already exists", episodeID),
			Cause:   err,
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}

func (r *GormMovieRepository) modelsToMovies(models []MovieModel) ([]*movie.Movie, error) {
	movies := make([]*movie.Movie, 0, len(models))
	for i := range models {
		m, err := r.modelToMovie(&models[i])
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// modelToMovie converts database model to domain entity
func (r *GormMovieRepository) modelToMovie(model *MovieModel) (*movie.Movie, error) {
	var refs movie.References
	lists := []struct {
		raw string
		dst *[]string
	}{
		{model.Characters, &refs.Characters},
		{model.Planets, &refs.Planets},
		{model.Starships, &refs.Starships},
		{model.Vehicles, &refs.Vehicles},
		{model.Species, &refs.Species},
	}
	for _, l := range lists {
		if err := unmarshalList(l.raw, l.dst); err != nil {
			return nil, fmt.Errorf("invalid reference list for movie %d: %w", model.ID, err)
		}
	}

	return &movie.Movie{
		ID:           model.ID,
		Title:        model.Title,
		EpisodeID:    model.EpisodeID,
		OpeningCrawl: model.OpeningCrawl,
		Director:     model.Director,
		Producer:     model.Producer,
		ReleaseDate:  model.ReleaseDate.UTC(),
		References:   refs,
		CreatedAt:    model.CreatedAt.UTC(),
		UpdatedAt:    utcPtr(model.UpdatedAt),
		URL:          model.URL,
	}, nil
}

// movieToModel converts domain entity to database model
func (r *GormMovieRepository) movieToModel(m *movie.Movie) (*MovieModel, error) {
	model := &MovieModel{
		ID:           m.ID,
		Title:        m.Title,
		EpisodeID:    m.EpisodeID,
		OpeningCrawl: m.OpeningCrawl,
		Director:     m.Director,
		Producer:     m.Producer,
		ReleaseDate:  m.ReleaseDate,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		URL:          m.URL,
	}

	var err error
	if model.Characters, err = marshalList(m.Characters); err != nil {
		return nil, err
	}
	if model.Planets, err = marshalList(m.Planets); err != nil {
		return nil, err
	}
	if model.Starships, err = marshalList(m.Starships); err != nil {
		return nil, err
	}
	if model.Vehicles, err = marshalList(m.Vehicles); err != nil {
		return nil, err
	}
	if model.Species, err = marshalList(m.Species); err != nil {
		return nil, err
	}
	return model, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	bytes, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list: %w", err)
	}
	return string(bytes), nil
}

func unmarshalList(raw string, dst *[]string) error {
	if raw == "" {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
