// Package types contains shared data types used across the career coach
// service: the structured error model, user profile schema, conversation
// entries, and the structured payloads produced by specialist stages.
package types
