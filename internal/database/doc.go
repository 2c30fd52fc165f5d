// Package database persists image ratings in SQLite so that likes, rejects
// and scores survive restarts between CSV exports.
//
// Every rating change is written through immediately. When a catalog is
// loaded, stored ratings for its paths are applied to the fresh records.
//
// The database uses WAL mode and creates its schema on open.
package database
