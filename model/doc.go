// Package model defines stable boundary types for API layers.
//
// Wire identity (canonical dag-pb bytes and CIDs) is unaffected by any
// projection. These structs are the only types intended for direct JSON
// serialization by consumers; the codec's own types never are.
package model
