// Package persistence provides the durable stores behind the coach: workflow
// checkpoints and user profiles in memory or Redis, and the chat history
// archive in memory or SQLite. The factory picks implementations from config
// so the rest of the system only sees interfaces.
package persistence
