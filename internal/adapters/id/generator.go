package id

import (
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Generator mints dynamic room names of the form <prefix><unix-millis>,
// optionally followed by -<suffix> so that calls landing in the same
// millisecond do not share a room.
type Generator struct {
	prefix       string
	suffixLength int
}

func New(prefix string, suffixLength int) *Generator {
	if suffixLength < 0 {
		suffixLength = 0
	}
	return &Generator{
		prefix:       prefix,
		suffixLength: suffixLength,
	}
}

func (g *Generator) DynamicRoomName(now time.Time) string {
	name := g.prefix + strconv.FormatInt(now.UnixMilli(), 10)
	if g.suffixLength == 0 {
		return name
	}

	suffix, err := gonanoid.Generate(suffixAlphabet, g.suffixLength)
	if err != nil {
		// crypto/rand failure; the timestamp alone is still unique per millisecond
		return name
	}
	return name + "-" + suffix
}
