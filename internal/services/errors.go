// Package services holds the application layer: message capture and
// retrieval, summary generation, retention purges, and per-user preferences.
// Each service wraps the repo package's queries with the policy the bot and
// the ops API rely on (window clamping, style fallbacks, purge accounting).
//
// Sentinel errors live in this file. Callers match them with errors.Is and
// decide per surface how to present them; the sentinels themselves carry no
// user-facing wording.
package services

import "errors"

// ErrUnknownStyle is returned when a requested summary style is not one of
// the supported set. The stored preference is left untouched when this is
// returned.
var ErrUnknownStyle = errors.New("unknown summary style")
