// Package sketchdoc owns the document: the named collection of sketches,
// the feature dependency graph over operations, and the change
// notifications the UI layer subscribes to. Its
// addSketch/removeSketch/renameSketch/setVisible call sites and
// notification points are plain Go callbacks rather than a signal/slot
// framework.
//
// Everything 3D (bodies, operations' B-Rep evaluation) is tracked here
// only as opaque handles and IDs; the B-Rep kernel itself stays out of
// scope.
package sketchdoc
