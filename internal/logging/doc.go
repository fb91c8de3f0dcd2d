// Package logging provides the zerolog setup shared by the kepler CLI and
// engine: logger construction from configuration with a stderr fallback,
// component sub-loggers, context propagation and ULID trace identifiers.
package logging
