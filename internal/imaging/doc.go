// Package imaging implements the image operations behind the
// imageprocessing tool: decoding a source payload, resizing, rotating,
// format conversion, and pixel filters.
//
// # Sources
//
// A source is either a base64-encoded image payload (raw or as a data URI)
// or a path to a local image file. Supported formats are PNG, JPEG, and GIF.
//
// # Results
//
// Every operation returns the processed image re-encoded and wrapped in a
// Result carrying dimensions, the base64 payload, and its MIME type, so
// transports can pass it through without touching image data.
//
// # Error Handling
//
// Functions return errors for undecodable sources, non-positive target
// dimensions, unknown filter or format names, and encoding failures.
package imaging
