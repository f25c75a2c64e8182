package main

import (
	"reflect"
	"testing"
)

func TestSplitRunArgs(t *testing.T) {
	withEntry := plaiaModule{Package: "calc", Entry: "calc.plaia"}

	tests := []struct {
		name string
		args []string
		doc  plaiaModule
		file string
		rest []string
	}{
		{"entry and arguments", []string{"2", "3"}, withEntry, "calc.plaia", []string{"2", "3"}},
		{"entry only", nil, withEntry, "calc.plaia", nil},
		{"file overrides entry", []string{"other.plaia", "4"}, withEntry, "other.plaia", []string{"4"}},
		{"no entry", []string{"prog", "1"}, plaiaModule{}, "prog", []string{"1"}},
		{"file without entry", []string{"prog.plaia"}, plaiaModule{}, "prog.plaia", []string{}},
	}

	for _, test := range tests {
		file, rest, err := splitRunArgs(test.args, test.doc)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if file != test.file {
			t.Errorf("%s: file is %q, want %q", test.name, file, test.file)
		}
		if len(rest) != len(test.rest) || (len(rest) > 0 && !reflect.DeepEqual(rest, test.rest)) {
			t.Errorf("%s: arguments are %v, want %v", test.name, rest, test.rest)
		}
	}
}

func TestSplitRunArgsNeedsAFile(t *testing.T) {
	if _, _, err := splitRunArgs(nil, plaiaModule{}); err == nil {
		t.Error("no file and no entry was accepted")
	}
}
