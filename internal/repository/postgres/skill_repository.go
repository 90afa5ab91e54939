package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
)

type skillRow struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey"`
	OperatorID string    `gorm:"column:operator_id;type:varchar(36);not null;index"`
	SkillName  string    `gorm:"column:skill_name;type:varchar(255);not null"`
	SkillLevel string    `gorm:"column:skill_level;type:varchar(50);default:'beginner'"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (skillRow) TableName() string {
	return "operator_skills"
}

func (r skillRow) toDomain() (*operator.Skill, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: skill id %q: %v", operator.ErrCorruptedRecord, r.ID, err)
	}
	opID, err := uuid.Parse(r.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: skill %q operator id: %v", operator.ErrCorruptedRecord, r.ID, err)
	}
	level := r.SkillLevel
	if level == "" {
		level = operator.DefaultSkillLevel
	}
	return &operator.Skill{ID: id, OperatorID: opID, Name: r.SkillName, Level: level, CreatedAt: r.CreatedAt}, nil
}

type SkillRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSkillRepository(db *gorm.DB, log *zap.Logger) *SkillRepository {
	return &SkillRepository{db: db, log: log}
}

func (r *SkillRepository) ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*operator.Skill, error) {
	var rows []skillRow
	err := r.db.WithContext(ctx).
		Where("operator_id = ?", operatorID.String()).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}

	out := make([]*operator.Skill, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			r.log.Warn("skipping corrupted skill record", zap.String("skill_id", row.ID), zap.Error(err))
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SkillRepository) Add(ctx context.Context, s *operator.Skill) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Level == "" {
		s.Level = operator.DefaultSkillLevel
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	row := skillRow{
		ID:         s.ID.String(),
		OperatorID: s.OperatorID.String(),
		SkillName:  s.Name,
		SkillLevel: s.Level,
		CreatedAt:  s.CreatedAt,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&operatorRow{}).Where("id = ?", row.OperatorID).Count(&count).Error; err != nil {
			return fmt.Errorf("checking operator: %w", err)
		}
		if count == 0 {
			return operator.ErrOperatorNotFound
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("creating skill: %w", err)
		}
		return nil
	})
}
