package piece

// cellTable, cellTable[kind][rotation] gives the four relative cell offsets
// a piece occupies, taken from the guideline SRS cell layout used by the
// original Cold Clear kinematics (libtetris/src/piece.rs, PieceState::cells).
var cellTable = [NumKinds][NumRotations][4]Cell{
	I: {
		North: {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		East:  {{1, -2}, {1, -1}, {1, 0}, {1, 1}},
		South: {{-1, -1}, {0, -1}, {1, -1}, {2, -1}},
		West:  {{0, -2}, {0, -1}, {0, 0}, {0, 1}},
	},
	O: {
		North: {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		East:  {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		South: {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		West:  {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	},
	T: {
		North: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
		East:  {{0, 1}, {0, 0}, {0, -1}, {1, 0}},
		South: {{1, 0}, {0, 0}, {-1, 0}, {0, -1}},
		West:  {{0, -1}, {0, 0}, {0, 1}, {-1, 0}},
	},
	L: {
		North: {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
		East:  {{0, 1}, {0, 0}, {0, -1}, {1, -1}},
		South: {{1, 0}, {0, 0}, {-1, 0}, {-1, -1}},
		West:  {{0, -1}, {0, 0}, {0, 1}, {-1, 1}},
	},
	J: {
		North: {{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},
		East:  {{0, 1}, {0, 0}, {0, -1}, {1, 1}},
		South: {{1, 0}, {0, 0}, {-1, 0}, {1, -1}},
		West:  {{0, -1}, {0, 0}, {0, 1}, {-1, -1}},
	},
	S: {
		North: {{0, 0}, {0, 1}, {-1, 0}, {1, 1}},
		East:  {{0, 0}, {1, 0}, {0, 1}, {1, -1}},
		South: {{0, -1}, {0, 0}, {-1, -1}, {1, 0}},
		West:  {{-1, 0}, {0, 0}, {-1, 1}, {0, -1}},
	},
	Z: {
		North: {{0, 0}, {0, 1}, {-1, 1}, {1, 0}},
		East:  {{0, 0}, {1, 0}, {1, 1}, {0, -1}},
		South: {{0, -1}, {0, 0}, {-1, 0}, {1, -1}},
		West:  {{-1, 0}, {0, 0}, {0, 1}, {-1, -1}},
	},
}

// iRotationPoints and jlstzRotationPoints are the five SRS rotation-point
// tables (the first is always the origin) per rotation state, from
// libtetris/src/piece.rs PieceState::rotation_points. A kick offset between
// rotation "from" and rotation "to" is the i'th point of "from" minus the
// i'th point of "to".
var iRotationPoints = [NumRotations][5][2]int{
	North: {{0, 0}, {-1, 0}, {2, 0}, {-1, 0}, {2, 0}},
	East:  {{0, 0}, {1, 0}, {1, 0}, {1, 1}, {1, -2}},
	South: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, -1}},
	West:  {{0, 0}, {0, 0}, {0, 0}, {0, -2}, {0, 1}},
}

var jlstzRotationPoints = [NumRotations][5][2]int{
	North: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
	East:  {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	South: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
	West:  {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
}

// tMiniCorners and tFrontCorners are the two diagonal corners (relative to
// a T piece's anchor) checked for full/mini T-spin classification, indexed
// by the rotation state reached by the rotation that just occurred.
var tMiniCorners = [NumRotations][2][2]int{
	North: {{-1, 1}, {1, 1}},
	East:  {{1, 1}, {1, -1}},
	South: {{1, -1}, {-1, -1}},
	West:  {{-1, -1}, {-1, 1}},
}

var tFrontCorners = [NumRotations][2][2]int{
	North: {{1, -1}, {-1, -1}},
	East:  {{-1, -1}, {-1, 1}},
	South: {{-1, 1}, {1, 1}},
	West:  {{1, 1}, {1, -1}},
}
