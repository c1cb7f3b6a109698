// Package drawing defines the in-memory drawing document shared by the
// layout generator and the serializers.
//
// A [Document] is an ordered list of [Primitive] values (lines, polylines,
// text and dimensions), each assigned to one [Layer] of a fixed table with
// a fixed AutoCAD colour index. Coordinates are model units; serializers
// decide how model units map to sheet or file units.
package drawing
