// Package kv implements the durable string key/value stores the alarm
// repository persists into.
//
// Every store is bound to a namespace at construction time. Backends:
// an in-memory map, a YAML file on disk, Redis and PostgreSQL.
package kv
