// Package control implements the JSON-RPC 2.0 operator surface for a
// capture session.
//
// The server is the headless stand-in for the scanning UI: an operator
// client drives the same operations a capture dialog would expose, without
// this package holding any UI state of its own.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: structured log events on stderr, never stdout
//
// Supported methods:
//   - initialize: server identity and session handshake
//   - session/start: start the detection loop against the frame source
//   - detection/latest: most recent confident detection plus loop counters
//   - page/capture: rectify and enhance the current frame into a new page
//   - page/remove: delete a captured page by index
//   - session/pages: list captured pages in capture order
//   - session/finalize: assemble captured pages into a PDF on disk
//   - session/cancel: stop detecting and discard all captured pages
//   - ping: health check
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses:
//   - code -32601: unknown method
//   - code -32602: malformed or incomplete params
//   - code -32000: operation failure; the message carries the underlying
//     error text so clients can match sentinel errors such as an empty
//     session or an out-of-range page index
//
// # Usage
//
// The server is typically started by the serve command:
//
//	srv := control.New(ctrl, version, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal().Err(err).Msg("control server failed")
//	}
//
// Run returns when stdin closes; the caller owns controller teardown.
package control
