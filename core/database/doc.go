// Package database handles the connection to the inventory database.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration, with connection pooling and an
// initial ping to fail fast on bad credentials.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
