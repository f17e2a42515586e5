// Package component defines the lifecycle contract for the long-lived parts
// of an extkit process and an ordered registry that starts them in
// registration order and stops them in reverse.
package component
