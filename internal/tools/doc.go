// Package tools defines the built-in tool set served by the process:
// calculator, weather, imageprocessing, websearch, time, and text2image.
//
// Each tool is a mcp.Descriptor pairing a parameter schema with a handler.
// Handlers receive argument mappings already validated against the schema,
// so they read values by plain type assertion. Domain failures are returned
// as *mcp.ToolError; anything else is contained by the dispatcher.
//
// RegisterAll wires the full set into a registry in a fixed order, which is
// also the order the discovery endpoint reports.
package tools
