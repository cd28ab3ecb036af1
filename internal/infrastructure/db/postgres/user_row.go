package postgres

import (
	"database/sql"
	"time"

	"github.com/coopsoft/usermgmt/internal/domain"
)

type userRow struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	Remark       sql.NullString
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Username:     ur.Username,
		PasswordHash: ur.PasswordHash,
		Role:         domain.Role(ur.Role),
		Status:       domain.ApprovalStatus(ur.Status),
		CreatedAt:    ur.CreatedAt,
		LastLoginAt:  ur.LastLoginAt,
		Remark:       ur.Remark.String,
	}
}

func remarkValue(remark string) sql.NullString {
	return sql.NullString{String: remark, Valid: remark != ""}
}
