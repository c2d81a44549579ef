// Package bot implements the Telegram frontend: a long-poll update loop with
// per-update goroutine dispatch, the command surface, the composed access
// policy (admin or whitelisted), and the text/voice relay flows.
package bot
