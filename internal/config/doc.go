// Package config defines the settings used by the alarm binaries and provides
// helpers to load, validate and save them in YAML format.
//
// Besides the gRPC address it selects the storage backend, the evaluation
// tick, the snooze defaults and the optional MQTT, webhook and MCP endpoints.
package config
