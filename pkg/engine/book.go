package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
)

// bookZobrist hashes positions built while compiling an opening book. Book construction
// never searches or stores these positions in a transposition table, so any seed works;
// it need not match an engine's own table.
var bookZobrist = board.NewZobristTable(0)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a position. Once an empty
	// list is returned, the book should not be consulted again for the game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// Line represents an opening line: e2e4 d7d5.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book.
var NoBook = &book{moves: map[string][]board.Move{}}

// NewBook creates an opening book from a set of opening lines.
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}
	for _, line := range lines {
		key := fen.Initial
		for _, str := range line {
			next, err := board.ParseMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line '%v': %v", line, err)
			}

			pos, err := fen.Decode(bookZobrist, key)
			if err != nil {
				return nil, fmt.Errorf("invalid line '%v': %v", line, err)
			}
			turn := pos.Turn()

			var ml board.MoveList
			pos.GenerateLegal(&ml)

			found := false
			for i := 0; i < ml.Len(); i++ {
				candidate := ml.At(i)
				if !candidate.Equals(next) {
					continue
				}
				found = true

				if m[fenKey(key)] == nil {
					m[fenKey(key)] = map[board.Move]bool{}
				}
				m[fenKey(key)][candidate] = true

				child := pos.Clone()
				child.MakeMove(candidate)
				key = fen.Encode(child, turn.Opponent(), 0, 1)
				break
			}

			if !found {
				return nil, fmt.Errorf("invalid line '%v': move %v not found", line, next)
			}
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}
		sort.Slice(list, func(i, j int) bool {
			if oi, oj := mvvLVAOrder(list[i]), mvvLVAOrder(list[j]); oi != oj {
				return oi > oj
			}
			return list[i].String() < list[j].String()
		})
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

// mvvLVAOrder ranks a move by most-valuable-victim, least-valuable-attacker, the
// standard tiebreak for presenting equally-book-worthy captures before quiet moves.
func mvvLVAOrder(m board.Move) int {
	if !m.Kind.IsCapture() {
		return 0
	}
	victim := m.Captured
	if m.Kind == board.EnPassantCapture {
		victim = board.Pawn
	}
	return pieceBookValue(victim)*16 - pieceBookValue(m.Piece)
}

func pieceBookValue(p board.Piece) int {
	switch p {
	case board.Pawn:
		return 1
	case board.Knight, board.Bishop:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 20
	default:
		return 0
	}
}

type book struct {
	moves map[string][]board.Move // cropped fen -> []move
}

func (b *book) Find(ctx context.Context, fen string) ([]board.Move, error) {
	return b.moves[fenKey(fen)], nil
}

func fenKey(pos string) string {
	parts := strings.Split(pos, " ")
	return strings.Join(parts[:4], " ")
}
