// Package tools implements the sketch drawing tool state machines
// (Line, Rectangle, Circle, Arc, Ellipse, Trim, Mirror), the tool
// manager that wires snap resolution and auto-constraint inference into
// each click, and the intersection materializer that splits crossed
// geometry after every commit. Each tool advances through its click
// sequence as a small explicit state machine.
package tools
