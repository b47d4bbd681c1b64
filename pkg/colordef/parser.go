// Package colordef reads and writes color definition files: INI documents with
// an "options" section describing the list and a "colors" section mapping
// color names to RRGGBB values.
package colordef

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BitPonyLLC/colorname/pkg/colorspace"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	OptionsSection = "options"
	ColorsSection  = "colors"
	NameOption     = "name"
	ActiveOption   = "active"

	// DefaultPattern matches definition files inside a colors directory.
	DefaultPattern = "colorname-*.txt"
)

// section and key names are case-sensitive
var loadOptions = ini.LoadOptions{}

// ParseFile loads the color definition file at path.
func ParseFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, parseFailure(path, err)
	}
	defer f.Close()

	return Parse(path, f)
}

// Parse reads a color definition from r. The path is recorded on the list and
// used in error messages. The returned list is enabled unless its active option
// says otherwise.
func Parse(path string, r io.Reader) (*List, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, parseFailure(path, err)
	}

	cfg, err := ini.LoadSources(loadOptions, content)
	if err != nil {
		return nil, parseFailure(path, err)
	}

	options, err := cfg.GetSection(OptionsSection)
	if err != nil {
		return nil, parseFailure(path, errors.Wrap(ErrMissingSection, OptionsSection))
	}

	colors, err := cfg.GetSection(ColorsSection)
	if err != nil {
		return nil, parseFailure(path, errors.Wrap(ErrMissingSection, ColorsSection))
	}

	if !options.HasKey(NameOption) {
		return nil, parseFailure(path, ErrMissingName)
	}

	l := NewList(options.Key(NameOption).String())
	l.Path = path
	l.Enabled = true

	for _, key := range options.Keys() {
		l.Options[key.Name()] = key.String()
	}

	if active, ok := l.Options[ActiveOption]; ok {
		l.Enabled, err = parseActive(active)
		if err != nil {
			return nil, parseFailure(path, err)
		}
	}

	for _, key := range colors.Keys() {
		c, err := ParseHex(key.String())
		if err != nil {
			return nil, parseFailure(path, errors.Wrapf(err, "color %s", key.Name()))
		}
		l.Set(key.Name(), c)
	}

	return l, nil
}

// ParseHex converts exactly six hex digits (no prefix) into a color.
func ParseHex(value string) (colorspace.RGBColor, error) {
	if len(value) != 6 {
		return colorspace.RGBColor{}, errors.Wrapf(ErrInvalidColor, "%q", value)
	}

	var channels [3]uint8
	for i := range channels {
		n, err := strconv.ParseUint(value[i*2:i*2+2], 16, 8)
		if err != nil {
			return colorspace.RGBColor{}, errors.Wrapf(ErrInvalidColor, "%q", value)
		}
		channels[i] = uint8(n)
	}

	return colorspace.RGBColor{Red: channels[0], Green: channels[1], Blue: channels[2]}, nil
}

// Glob returns the definition files matching pattern in each directory, in
// directory order and sorted within a directory. Environment variables in the
// directory names are expanded. Missing directories are ignored.
func Glob(dirs []string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	var files []string
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(os.ExpandEnv(dir), pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %s", pattern)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	return files, nil
}

//--------------------------------------------------------------------------------
// private

func parseActive(value string) (bool, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n != 0, nil
	}

	switch value {
	case "t", "T", "TRUE", "true", "True", "YES", "yes", "Yes", "y", "ON", "on", "On":
		return true, nil
	case "f", "F", "FALSE", "false", "False", "NO", "no", "No", "n", "OFF", "off", "Off":
		return false, nil
	}

	return false, errors.Wrapf(ErrInvalidActive, "%q", value)
}
