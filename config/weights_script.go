package config

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/MinusKelvin/cold-clear/eval"
)

// LoadWeightsScript runs a Lua script at path and uses its globals to
// override base's scalar fields, one global per yaml tag name (e.g. a
// script that does `back_to_back = 52` overrides Weights.BackToBack).
// Array fields (Tslot, WellColumn) aren't addressable this way and are
// left untouched — a tuning script is expected to set them through the
// plain YAML loader instead.
//
// Grounded on domino14-macondo/shell/script.go's gopher-lua embedding:
// an *lua.LState runs the file, then Go reads values back out of its
// global table rather than the script calling back into Go.
func LoadWeightsScript(path string, base eval.Weights) (eval.Weights, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return eval.Weights{}, fmt.Errorf("config: running weights script %q: %w", path, err)
	}

	w := base
	v := reflect.ValueOf(&w).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("yaml")
		if tag == "" {
			continue
		}
		lv := L.GetGlobal(tag)
		if lv == lua.LNil {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Int:
			n, ok := lv.(lua.LNumber)
			if !ok {
				return eval.Weights{}, fmt.Errorf("config: weights script %q: %s must be a number", path, tag)
			}
			fv.SetInt(int64(n))
		case reflect.Bool:
			b, ok := lv.(lua.LBool)
			if !ok {
				return eval.Weights{}, fmt.Errorf("config: weights script %q: %s must be a boolean", path, tag)
			}
			fv.SetBool(bool(b))
		}
	}
	return w, nil
}
