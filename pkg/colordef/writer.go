package colordef

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Write serializes the list in the definition file format. The name and active
// options come first, followed by any other options in sorted order.
func Write(w io.Writer, l *List) error {
	cfg := ini.Empty()

	options, err := cfg.NewSection(OptionsSection)
	if err != nil {
		return errors.WithStack(err)
	}

	active := "0"
	if l.Enabled {
		active = "1"
	}

	err = addKeys(options, [][2]string{{NameOption, l.Name}, {ActiveOption, active}})
	if err != nil {
		return err
	}

	var extra []string
	for k := range l.Options {
		if k != NameOption && k != ActiveOption {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	for _, k := range extra {
		err = addKeys(options, [][2]string{{k, l.Options[k]}})
		if err != nil {
			return err
		}
	}

	colors, err := cfg.NewSection(ColorsSection)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, name := range l.Names() {
		err = addKeys(colors, [][2]string{{name, l.Colors[name].Hex()}})
		if err != nil {
			return err
		}
	}

	_, err = cfg.WriteTo(w)
	if err != nil {
		return errors.Wrapf(err, "unable to write color list %s", l.Name)
	}

	return nil
}

func addKeys(section *ini.Section, pairs [][2]string) error {
	for _, kv := range pairs {
		_, err := section.NewKey(kv[0], kv[1])
		if err != nil {
			return errors.Wrapf(err, "unable to add %s to %s", kv[0], section.Name())
		}
	}
	return nil
}
