package operator

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSkillLevel = "beginner"

type Operator struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill is a named competency attached to an operator. Skills are removed
// together with their operator.
type Skill struct {
	ID         uuid.UUID `json:"id"`
	OperatorID uuid.UUID `json:"-"`
	Name       string    `json:"skill_name"`
	Level      string    `json:"skill_level"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateOperatorCommand struct {
	Name  string
	Email string
	Phone *string
}

// UpdateOperatorCommand holds a partial update. ClearPhone is set when the
// client sent "phone": null or an empty phone.
type UpdateOperatorCommand struct {
	Name       *string
	Email      *string
	Phone      *string
	ClearPhone bool
}

func New(cmd CreateOperatorCommand, now time.Time) *Operator {
	return &Operator{
		ID:        uuid.New(),
		Name:      cmd.Name,
		Email:     NormalizeEmail(cmd.Email),
		Phone:     cmd.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (o *Operator) Apply(cmd UpdateOperatorCommand, now time.Time) {
	if cmd.Name != nil {
		o.Name = *cmd.Name
	}
	if cmd.Email != nil {
		o.Email = NormalizeEmail(*cmd.Email)
	}
	if cmd.ClearPhone {
		o.Phone = nil
	} else if cmd.Phone != nil {
		p := *cmd.Phone
		o.Phone = &p
	}
	o.UpdatedAt = now
}

// NormalizeEmail is the stored and compared form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
