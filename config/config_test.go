package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/movegen"
)

func TestDefaultOptionsWithoutFile(t *testing.T) {
	is := is.New(t)
	opts, err := LoadOptions("")
	is.NoErr(err)
	is.Equal(opts, DefaultOptions())
}

func TestDefaultWeightsWithoutFile(t *testing.T) {
	is := is.New(t)
	w, err := LoadWeights("")
	is.NoErr(err)
	is.Equal(w, eval.StandardWeights())
}

func TestLoadOptionsOverridesFromFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")
	is.NoErr(os.WriteFile(path, []byte("threads: 4\nuse_hold: false\n"), 0o644))

	opts, err := LoadOptions(path)
	is.NoErr(err)
	is.Equal(opts.Threads, 4)
	is.True(!opts.UseHold)
	is.Equal(opts.Mode, movegen.Mode0G) // untouched fields keep their default
}

func TestLoadWeightsOverridesFromFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	is.NoErr(os.WriteFile(path, []byte("clear4: 12345\n"), 0o644))

	w, err := LoadWeights(path)
	is.NoErr(err)
	is.Equal(w.Clear4, 12345)
	is.Equal(w.PerfectClear, eval.StandardWeights().PerfectClear) // untouched
}

func TestLoadWeightsScriptOverridesScalarFieldsByYAMLTagName(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.lua")
	script := "clear4 = 777\ntimed_jeopardy = true\njeopardy = -20\n"
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))

	w, err := LoadWeightsScript(path, eval.StandardWeights())
	is.NoErr(err)
	is.Equal(w.Clear4, 777)
	is.True(w.TimedJeopardy)
	is.Equal(w.Jeopardy, -20)
	is.Equal(w.PerfectClear, eval.StandardWeights().PerfectClear) // untouched

	// Array fields aren't addressable from a script; base values survive.
	is.Equal(w.Tslot, eval.StandardWeights().Tslot)
}

func TestLoadWeightsScriptRejectsBrokenScript(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.lua")
	is.NoErr(os.WriteFile(path, []byte("this is not lua {{{"), 0o644))

	_, err := LoadWeightsScript(path, eval.StandardWeights())
	is.True(err != nil)
}
