// Package config provides configuration management for entity-kit.
//
// It uses Viper to read environment variables, after loading an optional
// .env file with godotenv. Every field declares its key through the
// mapstructure tag and its fallback through the default tag.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown window
//   - Database: driver (mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials, bucket and export prefix
//   - Log: logging level and format
//   - Serializer: default entity encoding (json, yaml) and indent
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
