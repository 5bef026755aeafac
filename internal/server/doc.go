// Package server implements the MCP (Model Context Protocol) server for the
// color grid tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the same pipeline
// the command line runs, so MCP-compatible clients can generate color grids,
// inspect sampled palettes and produce pixel-sorted mosaics.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Read dimensions, format and file size
//
// Color Grid:
//   - color_grid_generate: Run a batch and write grids and color info files
//   - color_grid_sample: Sample colors in memory and return the info document
//
// Pixel Sort:
//   - image_pixel_sort: Write the pixel-sorted mosaic of one image
//
// Every color tool accepts optional steps, hue_normal, wrap_hue and
// block_size arguments. Omitted arguments fall back to the configuration the
// server was started with.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments or configuration, -32000 for other
//     tool failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// A batch in which some files fail is not an error: the failures are listed
// in the returned report.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Error("server stopped", "error", err)
//	}
package server
