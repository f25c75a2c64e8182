package main

import (
	"io/ioutil"
	"os"

	"github.com/pontaoski/plaia/machine"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const moduleFile = "plaia.yaml"

type plaiaModule struct {
	Package  string   `yaml:"package"`
	Entry    string   `yaml:"entry,omitempty"`
	MaxDepth int      `yaml:"max_depth,omitempty"`
	Trace    *bool    `yaml:"trace,omitempty"`
	Args     []string `yaml:"args,omitempty"`
}

func (m plaiaModule) maxDepth() int {
	if m.MaxDepth <= 0 {
		return machine.DefaultMaxDepth
	}
	return m.MaxDepth
}

func (m plaiaModule) trace() bool {
	return m.Trace == nil || *m.Trace
}

// readModule loads path, returning an empty module when it does not exist.
func readModule(path string) (plaiaModule, error) {
	var doc plaiaModule

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, tracerr.Wrap(err)
	}

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return doc, tracerr.Errorf("error reading %s: %s", path, err)
	}
	return doc, nil
}

func writeModule(path string, doc plaiaModule) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return tracerr.Wrap(err)
	}

	return tracerr.Wrap(ioutil.WriteFile(path, out, 0644))
}
