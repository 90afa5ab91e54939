package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

// operatorRow is the persisted shape. The id is stored as text so a row
// written by another tool can fail to parse; such rows are skipped on read.
type operatorRow struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:varchar(320);uniqueIndex;not null"`
	Phone     *string   `gorm:"column:phone;type:varchar(20)"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`

	Skills []skillRow `gorm:"foreignKey:OperatorID;constraint:OnDelete:CASCADE"`
}

func (operatorRow) TableName() string {
	return "operators"
}

func operatorToRow(op *operator.Operator) operatorRow {
	return operatorRow{
		ID:        op.ID.String(),
		Name:      op.Name,
		Email:     op.Email,
		Phone:     op.Phone,
		CreatedAt: op.CreatedAt.UTC(),
		UpdatedAt: op.UpdatedAt.UTC(),
	}
}

func (r operatorRow) toDomain() (*operator.Operator, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q: %v", operator.ErrCorruptedRecord, r.ID, err)
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		return nil, fmt.Errorf("%w: id %q: missing timestamps", operator.ErrCorruptedRecord, r.ID)
	}
	return &operator.Operator{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

type OperatorRepository struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewOperatorRepository(db *gorm.DB, log *zap.Logger, m *metrics.Collector) *OperatorRepository {
	return &OperatorRepository{db: db, log: log, metrics: m}
}

func (r *OperatorRepository) List(ctx context.Context) ([]*operator.Operator, error) {
	var rows []operatorRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	return r.convertRows(rows), nil
}

// convertRows keeps every row that parses and logs the rest.
func (r *OperatorRepository) convertRows(rows []operatorRow) []*operator.Operator {
	out := make([]*operator.Operator, 0, len(rows))
	for _, row := range rows {
		op, err := row.toDomain()
		if err != nil {
			r.log.Warn("skipping corrupted operator record", zap.String("operator_id", row.ID), zap.Error(err))
			if r.metrics != nil {
				r.metrics.CorruptedRowsSkipped.Inc()
			}
			continue
		}
		out = append(out, op)
	}
	return out
}

func (r *OperatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error) {
	return r.getOne(ctx, "id = ?", id.String())
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*operator.Operator, error) {
	return r.getOne(ctx, "LOWER(email) = ?", operator.NormalizeEmail(email))
}

func (r *OperatorRepository) getOne(ctx context.Context, query string, arg any) (*operator.Operator, error) {
	var row operatorRow
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, operator.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("fetching operator: %w", err)
	}

	op, err := row.toDomain()
	if err != nil {
		r.log.Error("corrupted operator record", zap.String("operator_id", row.ID), zap.Error(err))
		return nil, operator.ErrOperatorNotFound
	}
	return op, nil
}

func (r *OperatorRepository) Create(ctx context.Context, op *operator.Operator) error {
	row := operatorToRow(op)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Skills").Create(&row).Error; err != nil {
			return mapOperatorError("creating operator", err)
		}
		return nil
	})
}

func (r *OperatorRepository) Update(ctx context.Context, op *operator.Operator) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&operatorRow{}).
			Where("id = ?", op.ID.String()).
			Updates(map[string]any{
				"name":       op.Name,
				"email":      op.Email,
				"phone":      op.Phone,
				"updated_at": op.UpdatedAt.UTC(),
			})
		if res.Error != nil {
			return mapOperatorError("updating operator", res.Error)
		}
		if res.RowsAffected == 0 {
			return operator.ErrOperatorNotFound
		}
		return nil
	})
}

func (r *OperatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("operator_id = ?", id.String()).Delete(&skillRow{}).Error; err != nil {
			return fmt.Errorf("deleting operator skills: %w", err)
		}

		res := tx.Where("id = ?", id.String()).Delete(&operatorRow{})
		if res.Error != nil {
			return fmt.Errorf("deleting operator: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return operator.ErrOperatorNotFound
		}
		return nil
	})
}

func mapOperatorError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return operator.ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
