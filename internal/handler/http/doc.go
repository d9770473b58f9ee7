// Package http implements the HTTP transport layer of the gateway.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as request tracing, access logging, CORS,
// and translation of provider failures into the stable client-facing error
// contract are handled in this package before requests are delegated to the
// service layer.
package http
