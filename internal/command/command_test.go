package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/minefield"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
		err  error
	}{
		{"r 5", Command{Reveal, []int{5}}, nil},
		{"  o 2   3 ", Command{RevealYX, []int{2, 3}}, nil},
		{"p", Command{Print, []int{}}, nil},
		{"", Command{}, ErrUnknownCommand},
		{"x 1", Command{}, ErrUnknownCommand},
		{"r", Command{}, ErrArgCount},
		{"o 1", Command{}, ErrArgCount},
		{"p 1", Command{}, ErrArgCount},
		{"r five", Command{}, ErrBadArgument},
		{"o 1 1.5", Command{}, ErrBadArgument},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			c, err := Parse(test.line)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, c)
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "o 2 3", Command{RevealYX, []int{2, 3}}.String())
	assert.Equal(t, "p", Command{Name: Print}.String())
}

func TestExecute(t *testing.T) {
	f, err := minefield.NewWithMines(4, []int{15})
	require.NoError(t, err)

	c, err := Parse("o 0 3")
	require.NoError(t, err)
	require.NoError(t, c.Execute(f))
	_, ok := f.RevealedCount(3)
	assert.True(t, ok)

	c, err = Parse("o 4 0")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Execute(f), minefield.ErrOutOfRange)

	c, err = Parse("r 16")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Execute(f), minefield.ErrOutOfRange)

	c, err = Parse("p")
	require.NoError(t, err)
	assert.NoError(t, c.Execute(f))

	assert.ErrorIs(t, Command{Name: "z"}.Execute(f), ErrUnknownCommand)
}

func TestLines(t *testing.T) {
	testCases := []struct {
		input string
		array []string
	}{
		{"r 1", []string{"r 1"}},
		{"r 1\no 2 2\np", []string{"r 1", "o 2 2", "p"}},
		{"\n r 3 \n\n\np\n", []string{"r 3", "p"}},
		{"", nil},
	}
	for _, test := range testCases {
		var got []string
		for i, p := range Lines(test.input) {
			assert.Equal(t, len(got), i)
			got = append(got, p)
		}
		assert.Equal(t, test.array, got)
	}
}

func TestLinesStopsEarly(t *testing.T) {
	n := 0
	for range Lines("p\np\np") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
