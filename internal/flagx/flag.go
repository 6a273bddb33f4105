// Package flagx lets several components share one command line, each parsing
// only the flags it defines.
package flagx

import (
	"flag"
	"io"
	"strings"
)

type boolFlag interface {
	IsBoolFlag() bool
}

// ParseKnown parses into fs only the arguments naming flags that fs defines.
// Unknown flags and positional arguments are dropped. "-name value",
// "--name value" and "-name=value" are accepted; a separate value is consumed
// only for non-boolean flags and only when it does not itself start with "-".
func ParseKnown(fs *flag.FlagSet, args []string) error {
	return fs.Parse(Known(fs, args))
}

// Known returns the subset of args that ParseKnown would hand to fs.Parse.
func Known(fs *flag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		out = append(out, arg)
		if hasValue {
			continue
		}
		if b, ok := f.Value.(boolFlag); ok && b.IsBoolFlag() {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFile returns the path given via -c or -config, or "".
func ConfigFile(args []string) string {
	var path string
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = ParseKnown(fs, args)
	return path
}
