package engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math"
)

// Source produces uniform random draws. Every game engine draws through a
// Source so that live play and deterministic replays use the same code path.
type Source interface {
	// Float returns the next uniform draw in [0, 1).
	Float() float64
	// Intn returns a uniform draw in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// CryptoSource is the live-play Source backed by crypto/rand.
type CryptoSource struct{}

// NewCryptoSource returns a Source suitable for live play.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Float reads 4 bytes of OS entropy and maps them to [0, 1).
func (s *CryptoSource) Float() float64 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the process environment is broken;
		// there is no meaningful fallback for a casino draw.
		panic(fmt.Sprintf("engine: entropy read failed: %v", err))
	}
	return bytesToFloat(buf)
}

// Intn maps a Float draw to [0, n).
func (s *CryptoSource) Intn(n int) int {
	return intnFromFloat(s.Float(), n)
}

// Stream is a deterministic Source backed by an HMAC-SHA256 byte stream
// keyed on a seed pair and nonce. Identical seeds replay identical rounds,
// which is what the engine tests and round verification rely on.
type Stream struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewStream creates a deterministic stream with the given seed pair and nonce.
func NewStream(serverSeed, clientSeed string, nonce uint64) *Stream {
	st := &Stream{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		nonce:      nonce,
	}
	st.generateRound()
	return st
}

// next returns the next byte from the stream.
func (st *Stream) next() byte {
	if st.currentPos >= 32 {
		st.currentRound++
		st.currentPos = 0
		st.generateRound()
	}
	b := st.buffer[st.currentPos]
	st.currentPos++
	return b
}

// Float consumes exactly 4 bytes and maps them to [0, 1).
func (st *Stream) Float() float64 {
	return bytesToFloat([4]byte{st.next(), st.next(), st.next(), st.next()})
}

// Intn maps a Float draw to [0, n).
func (st *Stream) Intn(n int) int {
	return intnFromFloat(st.Float(), n)
}

func (st *Stream) generateRound() {
	h := hmac.New(sha256.New, []byte(st.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", st.clientSeed, st.nonce, st.currentRound)
	h.Write([]byte(message))
	copy(st.buffer[:], h.Sum(nil))
}

// bytesToFloat converts exactly 4 bytes to a float64 in [0, 1) by treating
// each byte as a base-256 digit after the radix point.
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// intnFromFloat maps f in [0, 1) to an integer in [0, n).
func intnFromFloat(f float64, n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	index := int(math.Floor(f * float64(n)))
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// Shuffle performs an unbiased Fisher-Yates shuffle of n elements using
// draws from src, calling swap for each exchange.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}
