// Package svg builds SVG elements and documents and rasterizes them.
//
// Elements are plain values: builders such as Circle or Gradient return an
// Element, and Set/Append return modified copies. Rendering sorts attributes
// so output is deterministic.
//
// Rasterization shells out to rsvg-convert from librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package svg
