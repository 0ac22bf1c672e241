// Package application provides application initialization and dependency wiring.
// It builds the denomination storage, metrics recorder, API handlers and router,
// and the HTTP server that also serves the embedded calculator page, keeping the
// main package focused on CLI parsing and orchestration.
package application
