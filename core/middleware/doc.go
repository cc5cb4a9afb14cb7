// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the catalog endpoints.
//   - rayid: a UUID RayID per request, stored in the context locals and
//     echoed in the X-Ray-ID response header for tracing.
//
// Both are registered globally by the serve command; rayid must come first so
// every later log line carries the RayID.
package middleware
