// cmd/pgarchive/filter_flags.go

package main

import (
	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

// filterFlags are the entry selection flags shared by list, extract and verify
type filterFlags struct {
	include     []string
	exclude     []string
	excludeFrom string
	sections    []string
	descs       []string
}

func (ff *filterFlags) register(cmd *cobra.Command, withDesc bool) {
	cmd.Flags().StringSliceVar(&ff.include, "include", nil, "Only entries matching these patterns (namespace/tag, gitignore syntax)")
	cmd.Flags().StringSliceVar(&ff.exclude, "exclude", nil, "Skip entries matching these patterns")
	cmd.Flags().StringVar(&ff.excludeFrom, "exclude-from", "", "File of exclude patterns, one per line")
	cmd.Flags().StringSliceVar(&ff.sections, "section", nil, "Only these sections (pre-data, data, post-data, none)")
	if withDesc {
		cmd.Flags().StringSliceVar(&ff.descs, "desc", nil, `Only these object kinds, e.g. "TABLE DATA"`)
	}
}

func (ff *filterFlags) options() (pgarchive.FilterOptions, error) {
	opts := pgarchive.FilterOptions{
		Include:     ff.include,
		Exclude:     ff.exclude,
		ExcludeFile: ff.excludeFrom,
		Descs:       ff.descs,
	}
	for _, s := range ff.sections {
		section, err := archive.ParseSection(s)
		if err != nil {
			return opts, err
		}
		opts.Sections = append(opts.Sections, section)
	}
	return opts, nil
}
