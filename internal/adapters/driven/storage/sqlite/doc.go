// Package sqlite provides SQLite-backed session persistence.
//
// The store holds the single user session and the single in-flight
// authorization attempt. Both tables are pinned to one row; saving
// always replaces. SQLite is used over a flat file so that concurrent
// CLI invocations (a fetch racing an auth callback) serialise through
// the database's locking instead of clobbering each other.
package sqlite
