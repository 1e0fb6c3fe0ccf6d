// Command inspect prints the schema and a row sample of a columnar file,
// rendered through the same decode and normalize path the converter uses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/pipeline"
	"github.com/colcast/colcast/pkg/readers"
	"github.com/colcast/colcast/pkg/schema"
)

const sampleRows = 5

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: inspect <file>")
		os.Exit(1)
	}

	if err := inspect(os.Args[1]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func inspect(path string) error {
	srcType, err := pipeline.SourceType(path)
	if err != nil {
		return err
	}

	reader, err := readers.DefaultFactory.Create(core.ReaderConfig{
		Type:      srcType,
		Path:      path,
		BatchSize: sampleRows,
	})
	if err != nil {
		return err
	}
	defer reader.Close()

	src, err := schema.FromArrow(reader.Schema())
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Columns: %d\n\nSchema:\n", len(src.Fields))
	for i, f := range src.Fields {
		fmt.Printf("  Field %d: %s (%s)\n", i, f.Name, f.Type)
	}

	record, err := reader.Read(context.Background())
	if err == io.EOF {
		fmt.Println("\nFile contains no rows.")
		return nil
	}
	if err != nil {
		return err
	}
	defer record.Release()

	norm := convert.NewNormalizer(nil)
	rows := int(record.NumRows())
	if rows > sampleRows {
		rows = sampleRows
	}

	fmt.Printf("\nFirst %d rows:\n", rows)
	for r := 0; r < rows; r++ {
		fmt.Printf("Row %d:\n", r)
		for i, f := range src.Fields {
			v, err := convert.DecodeCell(record.Column(i), r, f.Type)
			if err != nil {
				return err
			}
			nv, err := norm.Normalize(v, "")
			if err != nil {
				fmt.Printf("  %s: <%v>\n", f.Name, err)
				continue
			}
			if nv.IsNull() {
				fmt.Printf("  %s: null\n", f.Name)
				continue
			}
			fmt.Printf("  %s: %s\n", f.Name, convert.AppendJSON(nil, nv))
		}
	}

	return nil
}
