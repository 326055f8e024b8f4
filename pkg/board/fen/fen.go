// Package fen contains utilities for reading and writing positions in Forsyth-Edwards
// Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/corvidchess/corvid/pkg/board"
)

// Initial is the FEN of the standard chess starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN string into a position, using z for Zobrist hashing.
//
// Example: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(z *board.ZobristTable, s string) (*board.Position, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of fields in FEN: %q", s)
	}

	placements, err := parsePlacements(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", s, err)
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", s)
	}

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("invalid castling rights in FEN: %q", s)
	}

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square in FEN: %q", s)
		}
		ep = sq
	}

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", s)
	}

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: %q", s)
	}

	return board.FromPlacements(z, placements, turn, castling, ep, halfmove, fullmove), nil
}

func parsePlacements(field string) ([]board.Placement, error) {
	var ret []board.Placement

	rank := board.Rank8
	file := board.ZeroFile
	for _, r := range field {
		switch {
		case r == '/':
			if file != board.NumFiles {
				return nil, fmt.Errorf("rank ended early: %q", field)
			}
			rank--
			file = board.ZeroFile
		case unicode.IsDigit(r):
			file += board.File(r - '0')
		case unicode.IsLetter(r):
			color, piece, ok := parsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q", r)
			}
			if file >= board.NumFiles {
				return nil, fmt.Errorf("too many squares in rank: %q", field)
			}
			ret = append(ret, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			file++
		default:
			return nil, fmt.Errorf("invalid character %q", r)
		}
	}
	if file != board.NumFiles || rank != board.Rank1 {
		return nil, fmt.Errorf("wrong number of ranks/files: %q", field)
	}
	return ret, nil
}

// Encode renders a position as a FEN string.
func Encode(pos *board.Position, turn board.Color, halfmove, fullmove int) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			color, piece, ok := pos.Square(board.NewSquare(f, board.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > int(board.Rank1) {
			sb.WriteByte('/')
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%s %v %v %v %d %d", sb.String(), turn, pos.Castling(), ep, halfmove, fullmove)
}

func parseCastling(s string) (board.Castling, bool) {
	var ret board.Castling
	if s == "-" {
		return ret, true
	}
	for _, r := range s {
		switch r {
		case 'K':
			ret |= board.WhiteKingside
		case 'Q':
			ret |= board.WhiteQueenside
		case 'k':
			ret |= board.BlackKingside
		case 'q':
			ret |= board.BlackQueenside
		default:
			return 0, false
		}
	}
	return ret, true
}

func parseColor(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	p, ok := board.ParsePiece(r)
	if !ok {
		return 0, 0, false
	}
	if unicode.IsUpper(r) {
		return board.White, p, true
	}
	return board.Black, p, true
}

func printPiece(c board.Color, p board.Piece) rune {
	s := p.String()
	r := rune(s[0])
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
