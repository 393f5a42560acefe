package script

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
This file contains a participle grammar for voxel scripts. A script is a
sequence of statements, optionally separated by semicolons:

	set 3 at 10 20 30;
	fill 2 from 0 0 0 to 15 15 15;
	get 10 20 30;
	level 4 4 4;
	finalize;
	stats

Lines starting with # are comments.
*/

////////////////////////////////////////////////////////////////////////////////

var (
	Options = []participle.Option{ // nolint:gochecknoglobals
		participle.Lexer(
			lexer.MustSimple([]lexer.SimpleRule{
				{Name: "comment", Pattern: `#[^\n]*`},
				{Name: "Word", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
				{Name: "Integer", Pattern: `-?[0-9]+`},
				{Name: "Terminator", Pattern: `;`},
				{Name: "whitespace", Pattern: `\s+`},
			}),
		),
	}
)

// Script is a parsed voxel script.
type Script struct {
	Statements []*Statement `parser:"( @@ \";\"? )*"`
}

// Statement is a single script command.
type Statement struct {
	Set      *SetStmt  `parser:"@@"`
	Fill     *FillStmt `parser:"| @@"`
	Get      *Point    `parser:"| \"get\" @@"`
	Level    *Point    `parser:"| \"level\" @@"`
	Finalize bool      `parser:"| @\"finalize\""`
	Stats    bool      `parser:"| @\"stats\""`
}

// SetStmt writes a type at a single voxel.
type SetStmt struct {
	Type int   `parser:"\"set\" @Integer \"at\""`
	At   Point `parser:"@@"`
}

// FillStmt writes a type at every voxel of an inclusive box.
type FillStmt struct {
	Type int   `parser:"\"fill\" @Integer \"from\""`
	From Point `parser:"@@ \"to\""`
	To   Point `parser:"@@"`
}

// Point is a voxel coordinate.
type Point struct {
	X int `parser:"@Integer"`
	Y int `parser:"@Integer"`
	Z int `parser:"@Integer"`
}

// String returns the string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// NewParser returns a new script parser.
func NewParser() *participle.Parser[Script] {
	return participle.MustBuild[Script](Options...)
}

// Parse parses a script.
func Parse(src string) (*Script, error) {
	s, err := NewParser().ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return s, nil
}
