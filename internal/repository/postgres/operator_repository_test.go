package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

func TestOperatorRow_RoundTrip(t *testing.T) {
	phone := "+15551234567"
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	op := &operator.Operator{ID: uuid.New(), Name: "A", Email: "a@b.com", Phone: &phone, CreatedAt: now, UpdatedAt: now}

	got, err := operatorToRow(op).toDomain()
	require.NoError(t, err)
	assert.Equal(t, op, got)
}

func TestOperatorRow_Corrupted(t *testing.T) {
	now := time.Now()

	_, err := operatorRow{ID: "not-a-uuid", CreatedAt: now, UpdatedAt: now}.toDomain()
	assert.ErrorIs(t, err, operator.ErrCorruptedRecord)

	_, err = operatorRow{ID: uuid.NewString()}.toDomain()
	assert.ErrorIs(t, err, operator.ErrCorruptedRecord)
}

func TestConvertRows_SkipsCorruptedWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	repo := NewOperatorRepository(nil, zap.New(core), m)

	now := time.Now()
	good := operatorRow{ID: uuid.NewString(), Name: "ok", Email: "ok@x.io", CreatedAt: now, UpdatedAt: now}
	bad := operatorRow{ID: "garbage", Name: "bad", Email: "bad@x.io", CreatedAt: now, UpdatedAt: now}

	out := repo.convertRows([]operatorRow{bad, good})

	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].Name)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "skipping corrupted operator record", entry.Message)
	assert.Equal(t, "garbage", entry.ContextMap()["operator_id"])
}

func TestMapOperatorError(t *testing.T) {
	assert.ErrorIs(t, mapOperatorError("creating operator", gorm.ErrDuplicatedKey), operator.ErrEmailTaken)

	boom := errors.New("connection reset")
	err := mapOperatorError("creating operator", boom)
	assert.ErrorIs(t, err, boom)
	assert.EqualError(t, err, "creating operator: connection reset")
}

func TestSkillRow_DefaultsLevel(t *testing.T) {
	row := skillRow{ID: uuid.NewString(), OperatorID: uuid.NewString(), SkillName: "welding", CreatedAt: time.Now()}

	s, err := row.toDomain()
	require.NoError(t, err)
	assert.Equal(t, operator.DefaultSkillLevel, s.Level)
	assert.Equal(t, "welding", s.Name)

	row.OperatorID = "nope"
	_, err = row.toDomain()
	assert.ErrorIs(t, err, operator.ErrCorruptedRecord)
}

func TestModels(t *testing.T) {
	assert.Len(t, Models(), 3)
	assert.Equal(t, "operators", operatorRow{}.TableName())
	assert.Equal(t, "operator_skills", skillRow{}.TableName())
}
