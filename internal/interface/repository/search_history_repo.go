package repository

import (
	"context"
	"fmt"
	"time"

	"flightscout-service/internal/domain/entity"
	"flightscout-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSearchHistoryRepository implements the SearchHistoryRepository interface
type GormSearchHistoryRepository struct {
	db *gorm.DB
}

// NewGormSearchHistoryRepository creates a new GORM search history repository
func NewGormSearchHistoryRepository(db *gorm.DB) repository.SearchHistoryRepository {
	return &GormSearchHistoryRepository{
		db: db,
	}
}

// SearchHistory GORM model for database mapping
type SearchHistory struct {
	ID            string     `gorm:"column:id;primaryKey"`
	UserID        string     `gorm:"column:user_id;index"`
	Origin        string     `gorm:"column:origin;size:3"`
	Destination   string     `gorm:"column:destination;size:3"`
	DepartureDate time.Time  `gorm:"column:departure_date"`
	ReturnDate    *time.Time `gorm:"column:return_date"`
	Adults        int        `gorm:"column:adults"`
	Children      int        `gorm:"column:children"`
	Infants       int        `gorm:"column:infants"`
	CabinClass    string     `gorm:"column:cabin_class"`
	ResultCount   int        `gorm:"column:result_count"`
	CheapestPrice float64    `gorm:"column:cheapest_price"`
	Currency      string     `gorm:"column:currency;size:3"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
}

// TableName overrides the default table name
func (SearchHistory) TableName() string {
	return "search_histories"
}

// Create stores a search record
func (r *GormSearchHistoryRepository) Create(ctx context.Context, record *entity.SearchRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	model := SearchHistory{
		ID:            record.ID,
		UserID:        record.UserID,
		Origin:        record.Origin,
		Destination:   record.Destination,
		DepartureDate: record.DepartureDate,
		ReturnDate:    record.ReturnDate,
		Adults:        record.Adults,
		Children:      record.Children,
		Infants:       record.Infants,
		CabinClass:    string(record.CabinClass),
		ResultCount:   record.ResultCount,
		CheapestPrice: record.CheapestPrice,
		Currency:      record.Currency,
		CreatedAt:     record.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create search history: %w", err)
	}
	return nil
}

// FindByUser returns the most recent searches of a user, newest first
func (r *GormSearchHistoryRepository) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.SearchRecord, error) {
	var models []SearchHistory
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}

	// Convert GORM models to domain entities
	records := make([]*entity.SearchRecord, 0, len(models))
	for _, m := range models {
		records = append(records, &entity.SearchRecord{
			ID:            m.ID,
			UserID:        m.UserID,
			Origin:        m.Origin,
			Destination:   m.Destination,
			DepartureDate: m.DepartureDate,
			ReturnDate:    m.ReturnDate,
			Adults:        m.Adults,
			Children:      m.Children,
			Infants:       m.Infants,
			CabinClass:    entity.CabinClass(m.CabinClass),
			ResultCount:   m.ResultCount,
			CheapestPrice: m.CheapestPrice,
			Currency:      m.Currency,
			CreatedAt:     m.CreatedAt,
		})
	}
	return records, nil
}
