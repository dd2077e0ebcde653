package registry

import (
	"reflect"
	"runtime"
	"strings"
)

// FuncInfo describes where a registered function is defined.
type FuncInfo struct {
	Module string // package path of the defining package, if known
	Name   string // fully qualified function name, if known
	File   string
	Line   int
}

// Find reports the source location of the function registered under a name.
// Location fields stay zero for values the runtime cannot introspect
// (non-function values, method values, closures from stripped binaries).
func (ns *Namespace) Find(name string) (FuncInfo, error) {
	fn, err := ns.Get(name)
	if err != nil {
		return FuncInfo{}, err
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return FuncInfo{}, nil
	}
	rf := runtime.FuncForPC(rv.Pointer())
	if rf == nil {
		return FuncInfo{}, nil
	}
	file, line := rf.FileLine(rv.Pointer())
	full := rf.Name()
	module := full
	if i := strings.LastIndex(full, "."); i >= 0 {
		module = full[:i]
	}
	return FuncInfo{Module: module, Name: full, File: file, Line: line}, nil
}
