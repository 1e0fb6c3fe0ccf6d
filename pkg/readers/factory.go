// Package readers provides implementations of dataset readers for the
// columnar source formats colcast converts from.
package readers

import (
	"fmt"

	"github.com/colcast/colcast/pkg/core"
)

// Factory creates a reader based on the given configuration.
type Factory struct {
	readers map[string]Creator
}

// Creator is a function that creates a reader from a configuration.
type Creator func(config core.ReaderConfig) (core.DatasetReader, error)

// NewFactory creates a new reader factory.
func NewFactory() *Factory {
	return &Factory{
		readers: make(map[string]Creator),
	}
}

// Register registers a creator for a reader type.
func (f *Factory) Register(typ string, creator Creator) {
	f.readers[typ] = creator
}

// Create creates a reader based on the given configuration.
func (f *Factory) Create(config core.ReaderConfig) (core.DatasetReader, error) {
	creator, ok := f.readers[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported reader type: %s", config.Type)
	}
	return creator(config)
}

// DefaultFactory is the default reader factory with built-in reader types.
var DefaultFactory = NewFactory()

func init() {
	DefaultFactory.Register("parquet", NewParquetReader)
	DefaultFactory.Register("arrow", NewArrowReader)
}
