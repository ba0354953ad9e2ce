// Package client implements the alarmctl operations.
//
// Each operation is an Action run against the alarm server over gRPC; Run loads
// the settings, identifies the caller for the audit log and prints the outcome.
package client
