package trigger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream_BacklogKeepsMostRecentLines(t *testing.T) {
	// Arrange
	s := NewStream(2)

	// Act
	s.Publish("a")
	s.Publish("b")
	s.Publish("c")
	backlog, lines, cancel := s.Subscribe()
	defer cancel()
	s.Publish("d")

	// Assert
	assert.Equal(t, []string{"b", "c"}, backlog)
	assert.Equal(t, "d", <-lines)
}

func TestLineWriter_SplitsChunksIntoLines(t *testing.T) {
	// Arrange
	var got []string
	w := &lineWriter{emit: func(line string) { got = append(got, line) }}

	// Act
	fmt.Fprint(w, "first li")
	fmt.Fprint(w, "ne\r\nsecond\nthi")
	w.Flush()

	// Assert
	assert.Equal(t, []string{"first line", "second", "thi"}, got)
}
