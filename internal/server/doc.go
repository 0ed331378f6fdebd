// Package server exposes telemetry extraction as an MCP (Model Context
// Protocol) tool server.
//
// Requests arrive on stdin as JSON-RPC 2.0, one per line, and responses are
// written to stdout. Logs go to stderr. The methods handled are initialize,
// notifications/initialized, tools/list, tools/call and ping.
//
// Tools:
//   - telemetry_extract: full TelemetryData for a screenshot
//   - telemetry_pose: rider pose plus the silhouette features
//   - telemetry_regions: the field rectangles for a resolution and their source
//
// Extraction runs through the extractor handed to New, normally the parallel
// extractor, so OCR engines are built once and reused for every call.
//
// A failed tool call answers with JSON-RPC error code -32000 and the Go error
// string in data. A field that could not be read is not an error; it is
// simply missing from the telemetry JSON.
package server
