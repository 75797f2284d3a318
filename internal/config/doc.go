// Package config provides configuration loading and entity storage for quiver.
//
// Configuration lives in a single directory (by default ~/.config/quiver):
//
//	~/.config/quiver/
//	├── config.yaml      # main configuration
//	├── agents/          # agent definitions, one YAML file per agent
//	├── chains/          # chain definitions used by the file chain store
//	└── users/           # user records used by the file chain store
//
// LoadConfig starts from the defaults, overlays config.yaml and finally
// applies environment overrides:
//
//	DISABLED_EXTENSIONS  comma separated extension names to disable
//	API_URL, API_KEY     orchestration REST endpoint and credential
//	DEFAULT_USER         email of the owner of global chains
//	LOG_LEVEL            DEBUG, INFO, WARN or ERROR
//	DATABASE_URL         PostgreSQL DSN; selects the postgres chain store
//	REDIS_URL            Redis URL for the prompt cache and kv_store
//	WORKING_DIRECTORY    root of per-conversation workspaces
//
// Storage persists YAML entities under <config dir>/<entityType>/<name>.yaml
// and is shared by the agent loader and the file chain store.
package config
