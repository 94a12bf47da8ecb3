package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/diet-insights/backend/internal/analytics"
	"github.com/pageza/diet-insights/backend/internal/model"
)

const importBatchSize = 500

// DBSource serves the recipes table. Rows are returned in import order.
type DBSource struct {
	db     *gorm.DB
	logger *zap.Logger

	mu   sync.Mutex
	snap *Snapshot
}

// NewDBSource creates a source over db.
func NewDBSource(db *gorm.DB, logger *zap.Logger) *DBSource {
	return &DBSource{db: db, logger: logger}
}

func (s *DBSource) Name() string { return "database:" + s.db.Dialector.Name() }

func (s *DBSource) version(ctx context.Context) (string, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "db-0", nil
	}
	var latest model.Recipe
	if err := s.db.WithContext(ctx).Select("updated_at").Order("updated_at DESC").Take(&latest).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("db-%d-%d", count, latest.UpdatedAt.UnixNano()), nil
}

// Load reads every row unless the row count and last update are unchanged.
func (s *DBSource) Load(ctx context.Context) (*Snapshot, error) {
	version, err := s.version(ctx)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil && s.snap.Version == version {
		return s.snap, nil
	}

	var rows []model.Recipe
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, unavailable(s.Name(), err)
	}
	recipes := make([]analytics.Recipe, len(rows))
	for i, r := range rows {
		recipes[i] = r.Analytics()
	}
	s.snap = &Snapshot{
		Recipes:  recipes,
		Version:  version,
		LoadedAt: time.Now(),
		Report:   ParseReport{Rows: len(recipes), Accepted: len(recipes)},
	}
	s.logger.Debug("dataset loaded", zap.String("source", s.Name()), zap.Int("recipes", len(recipes)))
	return s.snap, nil
}

// Import replaces the table contents with recipes in one transaction.
// Positions are assigned densely from zero.
func (s *DBSource) Import(ctx context.Context, recipes []analytics.Recipe) error {
	rows := make([]model.Recipe, len(recipes))
	for i, r := range recipes {
		rows[i] = model.NewRecipe(i, r)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Recipe{}).Error; err != nil {
			return fmt.Errorf("clear recipes: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, importBatchSize).Error; err != nil {
			return fmt.Errorf("insert recipes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
	s.logger.Info("dataset imported", zap.String("source", s.Name()), zap.Int("recipes", len(rows)))
	return nil
}

type neighborRow struct {
	Position int
	Distance float64
}

// Nearest orders rows by Euclidean distance of their macro vector to target.
// Postgres uses the pgvector <-> operator; other drivers compute in memory.
// exclude is a snapshot index to skip, or -1.
func (s *DBSource) Nearest(ctx context.Context, target analytics.Centroid, n, exclude int) ([]analytics.Neighbor, error) {
	if s.db.Dialector.Name() != "postgres" {
		snap, err := s.Load(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.Nearest(snap.Recipes, target, n, exclude)
	}
	if n < 1 {
		return nil, &analytics.InvalidParameterError{Name: "n", Value: n, Reason: "must be at least 1"}
	}

	vec := model.MacroVector(target.Protein, target.Carbs, target.Fat)
	query := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("position, macros <-> ? AS distance", vec)
	if exclude >= 0 {
		query = query.Where("position <> ?", exclude)
	}
	var rows []neighborRow
	if err := query.Order("distance ASC, position ASC").Limit(n).Scan(&rows).Error; err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, unavailable(s.Name(), err)
	}

	out := make([]analytics.Neighbor, len(rows))
	for i, r := range rows {
		out[i] = analytics.Neighbor{Index: r.Position, Distance: r.Distance}
	}
	return out, nil
}
