// Package loop builds an adjacency graph from a sketch's edge-like
// entities and extracts closed faces (outer loop plus nested holes),
// open wires, and unused edges for downstream extrusion. An optional
// planarization pass approximates curves with segments, materializes
// crossings as split points, and reads cycles off the resulting planar
// embedding.
package loop
