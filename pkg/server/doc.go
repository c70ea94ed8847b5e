// Package server provides the nanohtml playground server.
//
// Routes:
//
//	POST /api/encode     nano document in the body, HTML out
//	POST /api/decode     always 501, decoding is not implemented
//	GET  /demos          list of playground demos
//	GET  /demos/{name}   rendered demo (?view=json for source and HTML)
//	GET  /ws             live preview over WebSocket
//	GET  /metrics        Prometheus metrics, when enabled
//	GET  /healthz        liveness
//
// Errors are returned as JSON objects carrying the nanohtml error code:
//
//	{"error": {"code": "N001", "category": "decode", "message": "..."}}
//
// /api/encode and /demos/{name} accept the query parameters indent, eol and
// minify. /api/encode also takes format (json, jsonc or yaml).
package server
