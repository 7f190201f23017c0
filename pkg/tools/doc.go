// Package tools exposes AIM operations as named tools with JSON input and
// output, and serves them over MCP (Model Context Protocol).
//
// It is organized into sub-packages:
//   - [github.com/mjiggidy/adderlib/pkg/tools/toolbox]: Tool type and ToolBox registry for registering, listing, and calling tools
//   - [github.com/mjiggidy/adderlib/pkg/tools/kvm]: tools backed by an [github.com/mjiggidy/adderlib/pkg/adder.API]
//   - [github.com/mjiggidy/adderlib/pkg/tools/mcpserver]: MCP server using the official MCP Go SDK for exposing tools over stdio
//
// The toolbox sub-package is the foundation layer. kvm and mcpserver depend
// on toolbox for the Tool type but are independent of each other.
package tools
