// Package configs handles the store-level configuration file.
//
// config.toml at the store root records the store's UUID, display name,
// schema version, and creation time. It is created once by `totara init`
// and committed with the rest of the tree. TOML load/save helpers are
// shared with the other packages that persist TOML artifacts.
package configs
