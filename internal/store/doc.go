// Package store persists conversation state and access control for chatrelay.
//
// # Overview
//
// Four tables back the bot: sessions (one per Telegram chat), messages
// (append-only role-tagged turns), whitelist_users, and admins. The same
// logical operations run over two backends — an embedded SQLite file or a
// networked PostgreSQL server — selected at startup by the database URL
// prefix.
//
// # Dialects
//
// Backend differences are isolated behind the internal dialect interface:
//
//   - placeholder style (`?` ordinals vs `$n` numbered)
//   - identity retrieval (last-insert-rowid vs RETURNING id)
//   - idempotent inserts (INSERT OR IGNORE vs ON CONFLICT DO NOTHING)
//   - column types and default-timestamp expressions in the schema
//
// Call sites write one query with `?` placeholders; the dialect rebinds it.
// Both backends must produce identical observable results.
//
// # Concurrency
//
// A single pool of at most 5 connections is shared by all handlers. No
// application-level locking or transactions wrap multi-statement sequences;
// operations on different chats are independent, while concurrent operations
// on the same chat have documented race windows (see FindOrCreateSession).
package store
