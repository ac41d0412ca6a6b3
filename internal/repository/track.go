package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fiston-user/musicez-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const trackColumns = `id, title, artist, album, genre, release_year, tempo, musical_key,
	 energy, danceability, valence, acousticness, instrumentalness, popularity,
	 created_at, updated_at`

type TrackRepository struct {
	db dbtx
}

func NewTrackRepository(pool *pgxpool.Pool) *TrackRepository {
	return &TrackRepository{db: pool}
}

func NewTrackRepositoryWithTx(tx pgx.Tx) *TrackRepository {
	return &TrackRepository{db: tx}
}

func (r *TrackRepository) Create(ctx context.Context, t *domain.Track) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tracks (`+trackColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		t.ID, t.Title, t.Artist, t.Album, t.Genre, t.ReleaseYear, t.Tempo, t.MusicalKey,
		t.Energy, t.Danceability, t.Valence, t.Acousticness, t.Instrumentalness, t.Popularity,
		t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TrackRepository) GetByID(ctx context.Context, id string) (*domain.Track, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE id = $1`,
		id,
	)
	track, err := scanTrack(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTrackNotFound
		}
		return nil, err
	}
	return track, nil
}

// SearchByTitleArtist runs one batched lookup whose predicate is the
// disjunction, over all terms, of case-insensitive substring containment on
// both title and artist.
func (r *TrackRepository) SearchByTitleArtist(ctx context.Context, terms []domain.TitleArtist) ([]*domain.Track, error) {
	if len(terms) == 0 {
		return []*domain.Track{}, nil
	}

	predicates := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)*2)
	for i, term := range terms {
		predicates = append(predicates, fmt.Sprintf(
			"(title ILIKE '%%' || $%d || '%%' AND artist ILIKE '%%' || $%d || '%%')",
			i*2+1, i*2+2,
		))
		args = append(args, term.Title, term.Artist)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE `+strings.Join(predicates, " OR "),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackRows(rows)
}

func scanTrackRows(rows pgx.Rows) ([]*domain.Track, error) {
	var tracks []*domain.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func scanTrack(row pgx.Row) (*domain.Track, error) {
	var t domain.Track
	err := row.Scan(
		&t.ID, &t.Title, &t.Artist, &t.Album, &t.Genre, &t.ReleaseYear, &t.Tempo, &t.MusicalKey,
		&t.Energy, &t.Danceability, &t.Valence, &t.Acousticness, &t.Instrumentalness, &t.Popularity,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
