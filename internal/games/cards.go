package games

import "github.com/KibbyCaps/gem-casino/internal/engine"

// Card represents a playing card with rank and suit. Immutable once drawn.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns a human-readable card representation like "♦2" or "♠A".
func (c Card) String() string {
	return c.Suit + c.Rank
}

// Suits in the order cards are laid out in the shoe: ♦, ♥, ♠, ♣
var cardSuits = []string{"♦", "♥", "♠", "♣"}

// Ranks in order: 2-10, J, Q, K, A
var cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// NewShoe builds a fresh 52-card shoe and shuffles it with an unbiased
// Fisher-Yates pass over draws from src. Cards are consumed from the end.
func NewShoe(src engine.Source) []Card {
	shoe := make([]Card, 0, 52)
	for _, rank := range cardRanks {
		for _, suit := range cardSuits {
			shoe = append(shoe, Card{Rank: rank, Suit: suit})
		}
	}
	engine.Shuffle(src, len(shoe), func(i, j int) {
		shoe[i], shoe[j] = shoe[j], shoe[i]
	})
	return shoe
}

// drawCard removes and returns the top card of the shoe.
func drawCard(shoe *[]Card) Card {
	s := *shoe
	c := s[len(s)-1]
	*shoe = s[:len(s)-1]
	return c
}

// cardValue returns the blackjack point value of a card rank.
// 2-10: face value, J/Q/K: 10, A: 11 (soft).
func cardValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// HandValue calculates the best blackjack hand value, down-valuing soft
// aces from 11 to 1 one at a time while the total exceeds 21. The score is
// recomputed from the full hand on every call, never kept incrementally.
func HandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += cardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}
