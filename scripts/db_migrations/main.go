package main

import (
	"database/sql"
	"errors"
	"flag"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/logging"
)

func main() {
	source := flag.String("source", "file://migrations", "Location of the migration files.")
	down := flag.Bool("down", false, "Roll back every migration instead of applying them.")
	flag.Parse()

	logger := logging.SetupLogging()

	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("ProcessEnvironmentVariables")
	}

	connectionDetails := "postgres://" + env.PostgresUsername + ":" + env.PostgresPassword + "@" + env.PostgresAddress + ":" + env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connectionDetails)
	if err != nil {
		logger.WithError(err).Fatal("sql.Open")
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.WithError(err).Fatal("postgres.WithInstance")
	}

	m, err := migrate.NewWithDatabaseInstance(*source, "postgres", driver)
	if err != nil {
		logger.WithError(err).Fatal("migrate.NewWithDatabaseInstance")
	}

	preMigrationVersion, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		preMigrationVersion = 0
	} else if err != nil {
		logger.WithError(err).Fatal("m.Version.preMigrationVersion")
	}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.WithError(err).Fatal("m.Migrate")
	}

	postMigrationVersion, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		postMigrationVersion = 0
	} else if err != nil {
		logger.WithError(err).Fatal("m.Version.postMigrationVersion")
	}

	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
		"down":                 *down,
	}).Info("Migration status")
}
