package board

// GeneratePseudoLegal appends every pseudo-legal move for the side to move into ml.
// Pseudo-legal moves may leave the mover's own king in check; callers use
// GenerateLegal, or make the move and test IsAttacked on the mover's king.
func (p *Position) GeneratePseudoLegal(ml *MoveList) {
	side := p.turn
	own := p.occ[side]
	enemy := p.occ[side.Opponent()]
	occ := own | enemy

	p.generatePawnMoves(ml, side, occ, enemy)
	p.generatePieceMoves(ml, Knight, side, own, enemy)
	p.generatePieceMoves(ml, Bishop, side, own, enemy)
	p.generatePieceMoves(ml, Rook, side, own, enemy)
	p.generatePieceMoves(ml, Queen, side, own, enemy)
	p.generatePieceMoves(ml, King, side, own, enemy)
	p.generateCastles(ml, side, occ)
}

func (p *Position) generatePieceMoves(ml *MoveList, pc Piece, side Color, own, enemy Bitboard) {
	occ := own | enemy
	bb := p.bb[side][pc]
	for bb != 0 {
		from := bb.Pop()
		targets := AttacksFrom(pc, from, side, occ) &^ own
		for targets != 0 {
			to := targets.Pop()
			if enemy.IsSet(to) {
				_, captured, _ := p.Square(to)
				ml.Add(Move{From: from, To: to, Piece: pc, Captured: captured, Kind: Capture})
			} else {
				ml.Add(Move{From: from, To: to, Piece: pc, Kind: Quiet})
			}
		}
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, side Color, occ, enemy Bitboard) {
	bb := p.bb[side][Pawn]
	promoRank := Rank8
	startRank := Rank2
	if side == Black {
		promoRank = Rank1
		startRank = Rank7
	}

	for bb != 0 {
		from := bb.Pop()
		one := Square(int(from) + side.Forward())

		if !occ.IsSet(one) {
			p.addPawnAdvance(ml, side, from, one, promoRank)

			if from.Rank() == startRank {
				two := Square(int(from) + 2*side.Forward())
				if !occ.IsSet(two) {
					ml.Add(Move{From: from, To: two, Piece: Pawn, Kind: DoublePawnPush})
				}
			}
		}

		attacks := PawnAttacks(from, side)
		targets := attacks & enemy
		for targets != 0 {
			to := targets.Pop()
			_, captured, _ := p.Square(to)
			p.addPawnCapture(ml, side, from, to, captured, promoRank)
		}

		if ep, ok := p.EnPassant(); ok && attacks.IsSet(ep) {
			ml.Add(Move{From: from, To: ep, Piece: Pawn, Kind: EnPassantCapture})
		}
	}
}

func (p *Position) addPawnAdvance(ml *MoveList, side Color, from, to Square, promoRank Rank) {
	if to.Rank() == promoRank {
		ml.Add(Move{From: from, To: to, Piece: Pawn, Kind: QueenPromotion})
		ml.Add(Move{From: from, To: to, Piece: Pawn, Kind: RookPromotion})
		ml.Add(Move{From: from, To: to, Piece: Pawn, Kind: BishopPromotion})
		ml.Add(Move{From: from, To: to, Piece: Pawn, Kind: KnightPromotion})
		return
	}
	ml.Add(Move{From: from, To: to, Piece: Pawn, Kind: Quiet})
}

func (p *Position) addPawnCapture(ml *MoveList, side Color, from, to Square, captured Piece, promoRank Rank) {
	if to.Rank() == promoRank {
		ml.Add(Move{From: from, To: to, Piece: Pawn, Captured: captured, Kind: QueenPromotionCapture})
		ml.Add(Move{From: from, To: to, Piece: Pawn, Captured: captured, Kind: RookPromotionCapture})
		ml.Add(Move{From: from, To: to, Piece: Pawn, Captured: captured, Kind: BishopPromotionCapture})
		ml.Add(Move{From: from, To: to, Piece: Pawn, Captured: captured, Kind: KnightPromotionCapture})
		return
	}
	ml.Add(Move{From: from, To: to, Piece: Pawn, Captured: captured, Kind: Capture})
}

func (p *Position) generateCastles(ml *MoveList, side Color, occ Bitboard) {
	enemy := side.Opponent()
	if side == White {
		if p.castling.Allows(WhiteKingside) && occ&(BitMask(F1)|BitMask(G1)) == 0 &&
			!p.IsAttacked(E1, enemy) && !p.IsAttacked(F1, enemy) && !p.IsAttacked(G1, enemy) {
			ml.Add(Move{From: E1, To: G1, Piece: King, Kind: KingCastle})
		}
		if p.castling.Allows(WhiteQueenside) && occ&(BitMask(B1)|BitMask(C1)|BitMask(D1)) == 0 &&
			!p.IsAttacked(E1, enemy) && !p.IsAttacked(D1, enemy) && !p.IsAttacked(C1, enemy) {
			ml.Add(Move{From: E1, To: C1, Piece: King, Kind: QueenCastle})
		}
		return
	}
	if p.castling.Allows(BlackKingside) && occ&(BitMask(F8)|BitMask(G8)) == 0 &&
		!p.IsAttacked(E8, enemy) && !p.IsAttacked(F8, enemy) && !p.IsAttacked(G8, enemy) {
		ml.Add(Move{From: E8, To: G8, Piece: King, Kind: KingCastle})
	}
	if p.castling.Allows(BlackQueenside) && occ&(BitMask(B8)|BitMask(C8)|BitMask(D8)) == 0 &&
		!p.IsAttacked(E8, enemy) && !p.IsAttacked(D8, enemy) && !p.IsAttacked(C8, enemy) {
		ml.Add(Move{From: E8, To: C8, Piece: King, Kind: QueenCastle})
	}
}

// GenerateLegal appends every fully legal move for the side to move into ml, by
// generating pseudo-legal moves and discarding any that leave the mover's own king in
// check. Handles double check implicitly, since only king moves survive when the king
// has two or more attackers (any non-king move leaves at least one attacker unaddressed).
func (p *Position) GenerateLegal(ml *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)

	side := p.turn
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		u := p.MakeMove(m)
		if !p.IsAttacked(p.King(side), p.turn) {
			ml.Add(m)
		}
		p.UnmakeMove(u)
	}
}

// HasLegalMove reports whether the side to move has at least one legal move, without
// building the full list. Used for cheap stalemate/checkmate detection.
func (p *Position) HasLegalMove() bool {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)

	side := p.turn
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		u := p.MakeMove(m)
		ok := !p.IsAttacked(p.King(side), p.turn)
		p.UnmakeMove(u)
		if ok {
			return true
		}
	}
	return false
}
