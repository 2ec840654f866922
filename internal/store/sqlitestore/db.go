package sqlitestore

import (
	"database/sql"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rs/zerolog"
)

// Open opens the sqlite database, runs pending migrations, and wraps
// the driver with otel instrumentation and query logging.
func Open(databasePath, migrationsPath string) (*sql.DB, error) {
	migrationDB, err := sql.Open("sqlite3", databasePath)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(migrationDB, migrationsPath); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open("sqlite3", databasePath,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("taskapi"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	queryLogger := zerolog.New(os.Stdout)
	db := sqldblogger.OpenDriver(databasePath, sqlDB.Driver(), zerologadapter.New(queryLogger))

	return db, nil
}

// RunMigrations applies the file-based migrations to db.
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"sqlite3",
		driver,
	)

	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}
