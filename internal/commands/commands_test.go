package commands

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	args, ok := Parse("cmd add queso")
	require.True(t, ok)
	assert.Equal(t, []string{"add", "queso"}, args)

	args, ok = Parse("  roll ")
	require.True(t, ok)
	assert.Equal(t, []string{"roll"}, args)

	_, ok = Parse("cmd ")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("shake", flag.ContinueOnError)
	x := fs.Float64("x", 0, "")
	var gotX []float64
	var gotArgs [][]string
	r.Register("shake", "shake -x <g>", fs, func(args []string) error {
		gotX = append(gotX, *x)
		gotArgs = append(gotArgs, args)
		return nil
	})
	r.Register("fail", "fails", nil, func([]string) error { return errors.New("boom") })

	require.NoError(t, r.Execute([]string{"shake", "-x", "2.5", "extra"}))
	require.NoError(t, r.Execute([]string{"shake"}))
	assert.Equal(t, []float64{2.5, 0}, gotX, "flags reset between runs")
	assert.Equal(t, []string{"extra"}, gotArgs[0])

	assert.EqualError(t, r.Execute([]string{"fail"}), "boom")
	assert.ErrorContains(t, r.Execute([]string{"nope"}), "unknown command")
	assert.ErrorContains(t, r.Execute([]string{"shake", "-y", "1"}), "shake:")
	assert.Error(t, r.Execute(nil))
}

func TestHelp(t *testing.T) {
	r := NewRegistry()
	r.Register("reset", "reset the burger", nil, func([]string) error { return nil })
	r.Register("add", "add <type>", nil, func([]string) error { return nil })
	assert.Equal(t, []string{"add", "reset"}, r.Names())
	assert.Equal(t, []string{"add: add <type>", "reset: reset the burger"}, r.Help())
}
