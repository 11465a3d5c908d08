package service

import (
	"context"
	"errors"
	"log"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/platform/otel"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/structure"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Seasons composes, edits and saves the season override.
type Seasons struct {
	store   storage.SeasonStore
	catalog *Catalog
	tracer  trace.Tracer
}

// NewSeasons creates a season service. Acts, enemies and characters are read
// through catalog.
func NewSeasons(store storage.SeasonStore, catalog *Catalog) *Seasons {
	return &Seasons{
		store:   store,
		catalog: catalog,
		tracer:  otel.Tracer("season"),
	}
}

func (s *Seasons) ready() error {
	if s == nil || s.store == nil || s.catalog == nil {
		return errors.New("season store is not configured")
	}
	return nil
}

// Load returns the effective season: the catalog merged with the saved override.
func (s *Seasons) Load(ctx context.Context) (season.Season, error) {
	if err := s.ready(); err != nil {
		return season.Season{}, err
	}
	acts, err := s.catalog.ListActs(ctx)
	if err != nil {
		return season.Season{}, err
	}
	doc, err := s.store.GetSeason(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return season.Compose(acts, nil), nil
	case err != nil:
		return season.Season{}, storageError(err, apperrors.CodeNotFound, "get season")
	}
	return season.Compose(acts, &doc), nil
}

// Save overwrites the override with current and mirrors the season fields
// onto the catalog acts. The mirror write is best-effort: its failure is
// logged and the save still succeeds.
func (s *Seasons) Save(ctx context.Context, current season.Season) error {
	if err := s.ready(); err != nil {
		return err
	}
	doc := current.SeasonDocument()
	if err := doc.Validate(); err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "season.save")
	defer span.End()
	span.SetAttributes(attribute.Int("season.acts", len(doc.Acts)))

	if err := s.store.PutSeason(ctx, doc); err != nil {
		span.SetStatus(codes.Error, "put season")
		return storageError(err, apperrors.CodeNotFound, "put season")
	}
	if err := s.store.PatchActSeasonFields(ctx, current.Acts); err != nil {
		log.Printf("sync season fields to catalog: %v", err)
		span.AddEvent("catalog sync failed", trace.WithAttributes(attribute.String("error", err.Error())))
	}
	return nil
}

// Reset deletes the override and clears the season fields of every act.
func (s *Seasons) Reset(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	ctx, span := s.tracer.Start(ctx, "season.reset")
	defer span.End()

	if err := s.store.DeleteSeason(ctx); err != nil {
		span.SetStatus(codes.Error, "delete season")
		return storageError(err, apperrors.CodeNotFound, "delete season")
	}
	if err := s.store.ClearActSeasonFields(ctx); err != nil {
		span.SetStatus(codes.Error, "clear act season fields")
		return storageError(err, apperrors.CodeNotFound, "clear act season fields")
	}
	return nil
}

// edit loads the season, applies fn and saves the result.
func (s *Seasons) edit(ctx context.Context, fn func(season.Season) (season.Season, error)) (season.Season, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return season.Season{}, err
	}
	next, err := fn(current)
	if err != nil {
		return season.Season{}, err
	}
	if err := s.Save(ctx, next); err != nil {
		return season.Season{}, err
	}
	return next, nil
}

// AddVariation appends a variation to a Variation act.
func (s *Seasons) AddVariation(ctx context.Context, actID string, settings structure.Settings) (season.Season, error) {
	return s.edit(ctx, func(current season.Season) (season.Season, error) {
		return season.UpdateAct(current, actID, func(act catalog.Act) (catalog.Act, error) {
			return structure.AddVariation(act, settings)
		})
	})
}

// EditVariation applies settings to the variation at index.
func (s *Seasons) EditVariation(ctx context.Context, actID string, index int, settings structure.Settings) (season.Season, error) {
	return s.edit(ctx, func(current season.Season) (season.Season, error) {
		return season.UpdateAct(current, actID, func(act catalog.Act) (catalog.Act, error) {
			return structure.EditVariation(act, index, settings)
		})
	})
}

// AttachEnemies copies the enemies with enemyIDs into the addressed wave.
// Boss and Arcana acts get their baseline variation first and always use
// wave zero.
func (s *Seasons) AttachEnemies(ctx context.Context, actID string, variationIndex, waveIndex int, enemyIDs []string, opts catalog.EnemyOptions) (season.Season, error) {
	if err := s.ready(); err != nil {
		return season.Season{}, err
	}
	enemies, err := s.catalog.resolveEnemies(ctx, enemyIDs)
	if err != nil {
		return season.Season{}, err
	}
	return s.edit(ctx, func(current season.Season) (season.Season, error) {
		return season.UpdateAct(current, actID, func(act catalog.Act) (catalog.Act, error) {
			return structure.AttachEnemies(act, variationIndex, waveIndex, enemies, opts)
		})
	})
}

// SetElements replaces the season element allow-list.
func (s *Seasons) SetElements(ctx context.Context, elements []string) (season.Season, error) {
	return s.edit(ctx, func(current season.Season) (season.Season, error) {
		return season.SetElements(current, elements)
	})
}

// SetOpeningCharacters replaces the opening characters with the catalog
// characters in characterIDs.
func (s *Seasons) SetOpeningCharacters(ctx context.Context, characterIDs []string) (season.Season, error) {
	if err := s.ready(); err != nil {
		return season.Season{}, err
	}
	if len(characterIDs) > season.MaxOpeningCharacters {
		_, err := season.SetOpeningCharacters(season.Season{}, make([]catalog.Character, len(characterIDs)))
		return season.Season{}, err
	}
	characters, err := s.catalog.resolveCharacters(ctx, characterIDs)
	if err != nil {
		return season.Season{}, err
	}
	return s.edit(ctx, func(current season.Season) (season.Season, error) {
		return season.SetOpeningCharacters(current, characters)
	})
}

// SetSpecialGuests replaces the special guests with the catalog characters
// in characterIDs.
func (s *Seasons) SetSpecialGuests(ctx context.Context, characterIDs []string) (season.Season, error) {
	if err := s.ready(); err != nil {
		return season.Season{}, err
	}
	if len(characterIDs) > season.MaxSpecialGuests {
		_, err := season.SetSpecialGuests(season.Season{}, make([]catalog.Character, len(characterIDs)))
		return season.Season{}, err
	}
	characters, err := s.catalog.resolveCharacters(ctx, characterIDs)
	if err != nil {
		return season.Season{}, err
	}
	return s.edit(ctx, func(current season.Season) (season.Season, error) {
		return season.SetSpecialGuests(current, characters)
	})
}
