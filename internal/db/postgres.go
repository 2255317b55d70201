package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/assohub/assohub-api/internal/config"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

// OpenPostgres connects to Postgres from the structured config and migrates
// the schema. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		conf.Host, conf.Port, conf.User, conf.Password, conf.DB, conf.SSLMode,
	)

	return open(postgres.Open(dsn))
}

// OpenPostgresWithURL connects with a full DATABASE_URL, the form most
// hosting platforms inject.
func OpenPostgresWithURL(url string) (*gorm.DB, error) {
	return open(postgres.Open(url))
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}
