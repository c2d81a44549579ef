// Package config handles configuration loading for chatrelay.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion, falling back to environment variables alone when the file is
// absent. The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	telegram:
//	  token: "${TELEGRAM_BOT_TOKEN}"
//	openai:
//	  api_key: "${OPENAI_API_KEY}"
//
// # Configuration Sections
//
// Transport and credentials:
//
//	telegram:
//	  token: "${TELEGRAM_BOT_TOKEN}"   # required
//	openai:
//	  api_key: "${OPENAI_API_KEY}"     # required
//	  base_url: ""                     # empty = public API
//
// Conversation behavior:
//
//	chat:
//	  model: "gpt-4o-mini"
//	  temperature: 0.7
//	  history_limit: 10
//	  transcription_model: "whisper-1"
//
// Database (postgres: prefix selects PostgreSQL, anything else is a SQLite
// file path):
//
//	database:
//	  url: "sqlite:chat_database.db"
//
// Initial super-admins, seeded on every start:
//
//	access:
//	  admin_user_ids: "1001,1002"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
