// Package mcp exposes the alarm scheduler as Model Context Protocol tools
// (self.alarm.*) so a voice assistant can set, list and silence alarms.
package mcp
