package generate

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
)

// nullProbability applies to every nullable column, matching the sparsity of
// the production tables the synthetic data stands in for.
const nullProbability = 0.05

// Generator produces record batches for one schema from one deterministic
// seed. A generator belongs to a single worker; two generators with the same
// schema and seed produce identical batches.
type Generator struct {
	schema  *arrow.Schema
	rng     *rand.Rand
	pool    *SamplePool
	builder *array.RecordBuilder

	baseDate time.Time
}

// NewGenerator creates a generator seeded for one output file.
func NewGenerator(sch *arrow.Schema, seed int64, alloc memory.Allocator) *Generator {
	if alloc == nil {
		alloc = memory.NewGoAllocator()
	}
	return &Generator{
		schema:   sch,
		rng:      rand.New(rand.NewSource(seed)),
		pool:     NewSamplePool(),
		builder:  array.NewRecordBuilder(alloc, sch),
		baseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NextBatch produces the next batch of rows. The caller owns the returned
// record and must release it.
func (g *Generator) NextBatch(rows int) (arrow.Record, error) {
	for r := 0; r < rows; r++ {
		for i, f := range g.schema.Fields() {
			if err := g.appendValue(g.builder.Field(i), f); err != nil {
				return nil, fmt.Errorf("column %q: %w", f.Name, err)
			}
		}
	}
	return g.builder.NewRecord(), nil
}

// Release frees the generator's builder.
func (g *Generator) Release() {
	g.builder.Release()
}

func (g *Generator) appendValue(b array.Builder, f arrow.Field) error {
	if f.Nullable && g.rng.Float64() < nullProbability {
		b.AppendNull()
		return nil
	}

	switch bld := b.(type) {
	case *array.StringBuilder:
		bld.Append(g.textFor(f.Name))
	case *array.BinaryBuilder:
		data := make([]byte, 1+g.rng.Intn(32))
		g.rng.Read(data)
		bld.Append(data)
	case *array.BooleanBuilder:
		bld.Append(g.rng.Intn(2) == 0)
	case *array.Int8Builder:
		bld.Append(int8(g.rng.Intn(256) - 128))
	case *array.Int16Builder:
		bld.Append(int16(g.rng.Intn(65536) - 32768))
	case *array.Int32Builder:
		bld.Append(int32(g.rng.Uint32()))
	case *array.Int64Builder:
		bld.Append(g.intFor(f.Name))
	case *array.Float32Builder:
		bld.Append(g.rng.Float32() * 1e6)
	case *array.Float64Builder:
		bld.Append((g.rng.Float64() - 0.5) * 1e9)
	case *array.Decimal128Builder:
		t := f.Type.(*arrow.Decimal128Type)
		num, err := decimal128.FromFloat64(g.rng.Float64()*1e4, t.Precision, t.Scale)
		if err != nil {
			return err
		}
		bld.Append(num)
	case *array.Date32Builder:
		day := g.baseDate.AddDate(0, 0, g.rng.Intn(3650))
		bld.Append(arrow.Date32FromTime(day))
	case *array.TimestampBuilder:
		ts := g.baseDate.Add(time.Duration(g.rng.Int63n(10*365*24*3600)) * time.Second)
		bld.Append(arrow.Timestamp(ts.UnixMicro()))
	case *array.ListBuilder:
		bld.Append(true)
		elem := f.Type.(*arrow.ListType).ElemField()
		n := 1 + g.rng.Intn(5)
		for i := 0; i < n; i++ {
			if err := g.appendValue(bld.ValueBuilder(), elem); err != nil {
				return err
			}
		}
	case *array.MapBuilder:
		bld.Append(true)
		t := f.Type.(*arrow.MapType)
		n := 1 + g.rng.Intn(4)
		for i := 0; i < n; i++ {
			if err := g.appendValue(bld.KeyBuilder(), arrow.Field{Name: "key", Type: t.KeyType()}); err != nil {
				return err
			}
			if err := g.appendValue(bld.ItemBuilder(), arrow.Field{Name: "value", Type: t.ItemType(), Nullable: true}); err != nil {
				return err
			}
		}
	case *array.StructBuilder:
		bld.Append(true)
		t := f.Type.(*arrow.StructType)
		for i := 0; i < t.NumFields(); i++ {
			if err := g.appendValue(bld.FieldBuilder(i), t.Field(i)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("no generator for type %s", f.Type)
	}

	return nil
}

func (g *Generator) intFor(name string) int64 {
	switch {
	case name == "user_id":
		return 100000 + g.rng.Int63n(999899999)
	case name == "order_id":
		return 1000000000 + g.rng.Int63n(9000000000)
	case name == "largeint_metric":
		// Deliberately beyond the float64 safe-integer range.
		return int64(1)<<53 + g.rng.Int63n(int64(1)<<62)
	default:
		return g.rng.Int63() - g.rng.Int63()
	}
}

func (g *Generator) textFor(name string) string {
	switch {
	case name == "record_id", name == "session_id":
		id, err := uuid.NewRandomFromReader(g.rng)
		if err != nil {
			return randomText(g.rng, 32)
		}
		return id.String()
	case name == "channel_code":
		return g.pool.pick(g.rng, g.pool.Channels)
	case name == "os":
		return g.pool.pick(g.rng, g.pool.OSNames)
	case name == "model":
		return g.pool.pick(g.rng, g.pool.Models)
	case name == "country":
		return g.pool.pick(g.rng, g.pool.Countries)
	case name == "city":
		return g.pool.pick(g.rng, g.pool.Cities)
	case name == "key":
		return g.pool.pick(g.rng, g.pool.Keys)
	case strings.Contains(name, "tag"):
		return g.pool.pick(g.rng, g.pool.Tags)
	case strings.Contains(name, "json"):
		return g.jsonText()
	default:
		return randomText(g.rng, 40)
	}
}

// jsonText emits a small JSON document as a string, the shape that triggers
// re-parsing on the JSON Lines path.
func (g *Generator) jsonText() string {
	return fmt.Sprintf(`{"event":"%s","count":%d,"nested":{"score":%.2f,"tags":["%s","%s"]}}`,
		g.pool.pick(g.rng, g.pool.Words),
		g.rng.Intn(10000),
		g.rng.Float64()*100,
		g.pool.pick(g.rng, g.pool.Tags),
		g.pool.pick(g.rng, g.pool.Tags))
}
