// Package imaging provides the raster operations behind the image nodes.
//
// The centrepiece is the grid tiler: Slice cuts an image into a row-major
// grid of equally sized tiles and Combine pastes a tile list back into one
// canvas. The remaining functions are thin wrappers over disintegration/imaging,
// anthonynsimon/bild and fogleman/gg that give every node a single call with
// uniform validation.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For boxes, (left,top) is inclusive and (right,bottom) is exclusive
//
// Results are always rebased so their bounds start at (0,0).
//
// # Ownership
//
// No function modifies its input. Every result is a freshly allocated image,
// so tiles, crops and filtered copies never share pixel storage with their
// source.
//
// # Error Handling
//
// Input problems wrap ErrInvalidArgument and can be detected with errors.Is:
//   - ErrInvalidGrid for grids with fewer than one column or row
//   - ErrNoTiles when combining an empty tile list
//   - ErrEmptyImage for nil or zero-sized images
//
// Decoding and encoding failures are returned wrapped but do not match
// ErrInvalidArgument.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently.
package imaging
