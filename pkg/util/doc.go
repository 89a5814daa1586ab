// Package util provides small string and path helpers shared by the stencil
// packages.
//
//   - SafeFilePath - reject paths that are absolute or climb out of their base
//   - Truncate - cap stencils and values for logging
package util
