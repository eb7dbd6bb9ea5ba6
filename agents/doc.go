// Package agents implements the router and the specialist stages of the
// career coach workflow: profile updates, job fit analysis, career path
// guidance, and LinkedIn content enhancement.
//
// Every specialist degrades locally: a provider failure or an unparsable
// completion becomes a reduced-quality summary, never a turn-level error. The
// profile updater is the only stage with a side effect, and it defers that
// side effect behind a human confirmation.
package agents
