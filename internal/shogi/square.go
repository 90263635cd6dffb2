package shogi

// Square identifies one of the 81 squares of a shogi board, numbered
// 0..80 (file-major or rank-major ordering is the board collaborator's
// choice; the search core never interprets the numbering beyond using
// it as a dense index).
type Square int8

// NumSquares is the number of squares on a shogi board (9x9).
const NumSquares = 81

// SquareNone is the sentinel for "no square". Drop moves do not use it:
// a drop's from field holds a drop marker (81 plus the dropped piece
// type) instead.
const SquareNone Square = -1
