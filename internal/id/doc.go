// Package id generates identifiers for the built-in stencil variables.
//
// ULIDs are 26 characters of Crockford base32: 10 characters of millisecond
// timestamp followed by 16 characters of randomness. They sort by creation
// time, and a Generator keeps them unique within the same millisecond.
package id
