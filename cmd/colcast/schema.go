package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/pipeline"
	"github.com/colcast/colcast/pkg/readers"
	"github.com/colcast/colcast/pkg/schema"
)

// newSchemaCommand creates a new schema command.
func newSchemaCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema [flags] SOURCE",
		Short: "Show a file's schema and its lowering policy",
		Long: `The schema command prints the typed schema embedded in a columnar file
and the per-column lowering policy a conversion to the chosen target format
would apply.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Target format to project against")

	return cmd
}

func runSchema(sourcePath, formatName string) error {
	format, err := convert.ParseFormat(formatName)
	if err != nil {
		return err
	}

	srcType, err := pipeline.SourceType(sourcePath)
	if err != nil {
		return err
	}

	reader, err := readers.DefaultFactory.Create(core.ReaderConfig{
		Type: srcType,
		Path: sourcePath,
	})
	if err != nil {
		return err
	}
	defer reader.Close()

	src, err := schema.FromArrow(reader.Schema())
	if err != nil {
		return err
	}

	proj, err := convert.Project(src, format)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d columns, target format %s\n\n", sourcePath, len(src.Fields), format)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tSOURCE TYPE\tACTION\tTARGET TYPE")
	for i, col := range proj.Columns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			col.Name, col.Type, col.Action, proj.Target.Field(i).Type)
	}
	return w.Flush()
}
