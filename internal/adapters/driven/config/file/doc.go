// Package file provides a TOML-backed configuration store.
//
// Configuration lives in ~/.larkfetch/config.toml with restricted
// permissions; the app secret is stored here, so the file is 0600 and
// the directory 0700. Keys use dot notation ("app.id", "app.region")
// and nested TOML tables are flattened on load.
package file
