// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either MySQL (production) or SQLite (local runs and
// tests) based on the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies pool settings and
// pings the database within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table. VerifyModels parses
// GORM models, including their many2many join tables, and reports every
// table or column the live database lacks. The catalog check command uses it
// after migrations.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	mismatches, err := database.VerifyModels(db, &catalog.Author{}, &catalog.Book{})
package database
