package board

import (
	"fmt"
	"strings"
)

// SAN renders m, played from pos (before the move is made), in Standard Algebraic
// Notation, including the check/mate suffix determined by making the move.
func SAN(pos *Position, m Move) string {
	if m.Kind == KingCastle {
		return appendSuffix(pos, m, "O-O")
	}
	if m.Kind == QueenCastle {
		return appendSuffix(pos, m, "O-O-O")
	}

	var sb strings.Builder
	if m.Piece != Pawn {
		sb.WriteString(strings.ToUpper(m.Piece.String()))
		sb.WriteString(disambiguate(pos, m))
	} else if m.Kind.IsCapture() {
		sb.WriteString(m.From.File().String())
	}

	if m.Kind.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())

	if promo := m.Kind.PromotedPiece(); promo != NoPiece {
		sb.WriteByte('=')
		sb.WriteString(strings.ToUpper(promo.String()))
	}

	return appendSuffix(pos, m, sb.String())
}

// disambiguate returns the file, rank, or both needed to distinguish m.From from other
// same-piece moves to the same destination, per SAN's minimal-disambiguation rule.
func disambiguate(pos *Position, m Move) string {
	var ml MoveList
	pos.GenerateLegal(&ml)

	sameFile, sameRank, ambiguous := false, false, false
	for i := 0; i < ml.Len(); i++ {
		o := ml.At(i)
		if o.Piece != m.Piece || o.To != m.To || o.From == m.From {
			continue
		}
		ambiguous = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	switch {
	case !sameFile:
		return m.From.File().String()
	case !sameRank:
		return m.From.Rank().String()
	default:
		return m.From.String()
	}
}

func appendSuffix(pos *Position, m Move, s string) string {
	next := pos.Clone()
	next.MakeMove(m)
	if !next.InCheck() {
		return s
	}
	if !next.HasLegalMove() {
		return s + "#"
	}
	return s + "+"
}

// ParseSAN resolves a SAN string against pos's legal moves.
func ParseSAN(pos *Position, san string) (Move, error) {
	san = strings.TrimRight(san, "+#")

	var ml MoveList
	pos.GenerateLegal(&ml)

	if san == "O-O" {
		for i := 0; i < ml.Len(); i++ {
			if ml.At(i).Kind == KingCastle {
				return ml.At(i), nil
			}
		}
		return Move{}, fmt.Errorf("no legal kingside castle")
	}
	if san == "O-O-O" {
		for i := 0; i < ml.Len(); i++ {
			if ml.At(i).Kind == QueenCastle {
				return ml.At(i), nil
			}
		}
		return Move{}, fmt.Errorf("no legal queenside castle")
	}

	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		if SAN(pos, m) == san+suffixOf(pos, m) {
			return m, nil
		}
		// Accept the bare form too (without the +/# suffix already stripped above).
		if stripSuffix(SAN(pos, m)) == san {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("no legal move matches SAN %q", san)
}

func suffixOf(pos *Position, m Move) string {
	full := SAN(pos, m)
	if strings.HasSuffix(full, "#") {
		return "#"
	}
	if strings.HasSuffix(full, "+") {
		return "+"
	}
	return ""
}

func stripSuffix(s string) string {
	return strings.TrimRight(s, "+#")
}
