package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexToColumn(t *testing.T) {
	cases := map[int]string{0: "A", 6: "G", 25: "Z", 26: "AA", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for in, want := range cases {
		assert.Equal(t, want, IndexToColumn(in), "index %d", in)
	}
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", CellName(0, 0))
	assert.Equal(t, "G12", CellName(11, 6))
	assert.Equal(t, "C2", CellRef("c", 2))
}
