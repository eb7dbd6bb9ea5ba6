// Package api exposes the coach over HTTP: session bootstrap with LinkedIn
// scraping, the chat endpoint driving the workflow engine, resume for
// suspended confirmations, and profile/history reads.
package api
