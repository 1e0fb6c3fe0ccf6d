// Package writers provides implementations of dataset writers for the
// target formats colcast converts to.
package writers

import (
	"fmt"

	"github.com/colcast/colcast/pkg/convert"
	"github.com/colcast/colcast/pkg/core"
)

// Factory creates a writer based on the given configuration.
type Factory struct {
	writers map[string]Creator
}

// Creator is a function that creates a writer from a configuration and the
// projection of the current job. The projection may be nil for writers that
// emit a record schema as-is.
type Creator func(config core.WriterConfig, proj *convert.Projection) (core.DatasetWriter, error)

// NewFactory creates a new writer factory.
func NewFactory() *Factory {
	return &Factory{
		writers: make(map[string]Creator),
	}
}

// Register registers a creator for a writer type.
func (f *Factory) Register(typ string, creator Creator) {
	f.writers[typ] = creator
}

// Create creates a writer based on the given configuration.
func (f *Factory) Create(config core.WriterConfig, proj *convert.Projection) (core.DatasetWriter, error) {
	creator, ok := f.writers[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported writer type: %s", config.Type)
	}
	return creator(config, proj)
}

// DefaultFactory is the default writer factory with built-in writer types.
var DefaultFactory = NewFactory()

func init() {
	DefaultFactory.Register("csv", NewCSVWriter)
	DefaultFactory.Register("jsonl", NewJSONLWriter)
	DefaultFactory.Register("arrow", NewArrowWriter)
	DefaultFactory.Register("parquet", NewParquetWriter)
}
