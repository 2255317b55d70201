package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&Account{},
		&MembershipFee{},
		&Event{},
		&Participation{},
		&FinancialTransaction{},
	)
}

// isUniqueViolation reports whether err is a unique constraint violation on
// the named constraint. Postgres errors carry the constraint name; other
// drivers are covered by gorm's translated ErrDuplicatedKey.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// syncLinkedRoles makes the member row and any account row linked to it agree
// on the given role. Both the account-save and the member-save paths go
// through here so the two sides cannot drift.
func syncLinkedRoles(tx *gorm.DB, memberID uint, role string) error {
	err := tx.Model(&Member{}).
		Where("id = ? AND role <> ?", memberID, role).
		Update("role", role).Error
	if err != nil {
		return err
	}

	return tx.Model(&Account{}).
		Where("member_id = ? AND role <> ?", memberID, role).
		Update("role", role).Error
}
