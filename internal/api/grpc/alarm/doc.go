// Package alarm implements the gRPC transport for the alarm scheduler.
//
// The AlarmService carries google.protobuf.Struct messages in both
// directions, so no generated code is required: ServiceDesc registers the
// handlers and AlarmServiceClient invokes them by full method name. The
// codec helpers convert between domain alarms and Struct payloads.
package alarm
