// Package api serves the ingestion and retrieval operations over HTTP.
//
// Routes:
//
//	POST /upload/   multipart field "file"; ingests it and replaces the current snapshot
//	GET  /chunks    the current chunk texts in order
//	GET  /search    ?q=&k=&mode=vector|keyword
//	GET  /status    ingestion state and chunk count
//	GET  /healthz   liveness
//	GET  /metrics   Prometheus exposition, when a handler is configured
//
// Payload shapes for /upload/ and /chunks are kept compatible with earlier
// clients: {"status":"success","chunks_created":N} or {"error":msg}, and
// {"status":"success","total_chunks":N,"chunks":[...]} or
// {"status":"error","detail":"No chunks available. Please upload a PDF first."}.
package api
