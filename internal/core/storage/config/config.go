package config

import (
	"fmt"
	"os"
	"time"
)

// Config describes the document store and blob bucket holding sightings.
type Config struct {
	Mongo MongoConfig `yaml:"mongo"`
	// EnsureIndexes creates the 2dsphere index on location at startup.
	EnsureIndexes bool `yaml:"ensure_indexes"`
}

type MongoConfig struct {
	URI            string        `yaml:"uri"`
	DatabaseName   string        `yaml:"database_name"`
	Collection     string        `yaml:"collection"`
	Bucket         string        `yaml:"bucket"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			DatabaseName:   "MongoProject",
			Collection:     "GeoUFOSightings",
			Bucket:         "fs",
			ConnectTimeout: 10 * time.Second,
		},
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Mongo.URI == "" {
		c.Mongo.URI = defaults.Mongo.URI
	}
	if c.Mongo.DatabaseName == "" {
		c.Mongo.DatabaseName = defaults.Mongo.DatabaseName
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = defaults.Mongo.Collection
	}
	if c.Mongo.Bucket == "" {
		c.Mongo.Bucket = defaults.Mongo.Bucket
	}
	if c.Mongo.ConnectTimeout == 0 {
		c.Mongo.ConnectTimeout = defaults.Mongo.ConnectTimeout
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if val := os.Getenv("MONGO_URI"); val != "" {
		c.Mongo.URI = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Mongo.DatabaseName = val
	}
	if val := os.Getenv("MONGO_COLLECTION"); val != "" {
		c.Mongo.Collection = val
	}
	if val := os.Getenv("GRIDFS_BUCKET"); val != "" {
		c.Mongo.Bucket = val
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No paths to resolve in storage config.
func (c *Config) ResolvePaths(_ string) { _ = c }

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("storage.mongo.uri is required")
	}
	if c.Mongo.DatabaseName == "" {
		return fmt.Errorf("storage.mongo.database_name is required")
	}
	if c.Mongo.Collection == "" {
		return fmt.Errorf("storage.mongo.collection is required")
	}
	if c.Mongo.ConnectTimeout < 0 {
		return fmt.Errorf("storage.mongo.connect_timeout must not be negative")
	}
	return nil
}
