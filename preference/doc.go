// Package preference provides the string key/value stores used to persist
// activation state: Memory for tests and embedding, File for a local
// YAML/JSON/TOML file, and Redis for shared state.
//
// Controllers wrap stores with Guard so that a failing store never breaks
// activation: reads fall back to "" and failures are logged as warnings.
package preference
