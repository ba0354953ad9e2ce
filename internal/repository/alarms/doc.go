// Package alarms persists the alarm collection into a kv.Store.
//
// The layout is a flat key space: "next_id" holds the id counter, "count" the
// number of records and "alarm_<index>" one JSON record per alarm. Records are
// rewritten in full on every save, so per-alarm slots are not stable across removals.
package alarms
