// Package yamlflag implements a command line flag whose value is a YAML document.
package yamlflag

import (
	"encoding/json"
	"flag"
	"os"
	"reflect"
	"strings"

	"github.com/ghodss/yaml"
)

// New creates a flag.Value that parses a YAML document into value.
//
// The document may be given inline:
//
//	--flag="Key: value"
//
// When the argument starts with '@', the remainder names a file holding the document:
//
//	--flag=@file.yaml
//
// value must be a non-nil pointer; New panics otherwise.
func New(value any) flag.Getter {
	if kind := reflect.ValueOf(value).Kind(); kind != reflect.Ptr {
		panic(kind)
	}
	return &docValue{value}
}

type docValue struct {
	Value any
}

func (v *docValue) Get() any { return v.Value }

func (v *docValue) Set(s string) error {
	input := []byte(s)
	if filename, isFile := strings.CutPrefix(s, "@"); isFile {
		var e error
		if input, e = os.ReadFile(filename); e != nil {
			return e
		}
	}
	return yaml.Unmarshal(input, v.Value)
}

func (v *docValue) String() string {
	b, _ := json.Marshal(v.Value)
	return string(b)
}
