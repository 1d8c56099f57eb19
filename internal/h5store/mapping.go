package h5store

import (
	"errors"
	"fmt"

	"github.com/scigolib/chime/internal/utils"
)

// Position is an (x, y) electrode coordinate.
type Position [2]float64

// Positions reads one position per mapping record, in record order.
//
// A numeric (records x k) table contributes columns 2 and 3. Compound
// records contribute the members named xField and yField, which occupy
// positions 2 and 3 of the (channel, electrode, x, y) record layout.
func (s *Store) Positions(xField, yField string) ([]Position, error) {
	if s.file == nil {
		return nil, errors.New("store is closed")
	}

	info, err := describe(s.mapping)
	if err != nil {
		return nil, utils.DatasetError("describe", MappingKey, err)
	}
	if info.compound {
		return s.compoundPositions(xField, yField)
	}
	return s.tablePositions(info.dims)
}

func (s *Store) tablePositions(dims []uint64) ([]Position, error) {
	if len(dims) != 2 {
		return nil, fmt.Errorf("mapping must be 2-D or compound, got %d dimensions", len(dims))
	}
	rows, cols := dims[0], dims[1]
	if cols < MappingColumns {
		return nil, fmt.Errorf("mapping has %d fields per record, need at least %d", cols, MappingColumns)
	}

	data, err := s.mapping.Read()
	if err != nil {
		return nil, utils.DatasetError("read", MappingKey, err)
	}
	if uint64(len(data)) != rows*cols {
		return nil, fmt.Errorf("mapping returned %d values, want %d", len(data), rows*cols)
	}

	out := make([]Position, rows)
	for i := uint64(0); i < rows; i++ {
		row := data[i*cols : (i+1)*cols]
		out[i] = Position{row[xColumn], row[yColumn]}
	}
	return out, nil
}

func (s *Store) compoundPositions(xField, yField string) ([]Position, error) {
	records, err := s.mapping.ReadCompound()
	if err != nil {
		return nil, utils.DatasetError("read", MappingKey, err)
	}
	return positionsFromRecords(records, xField, yField)
}

// positionsFromRecords takes the xField and yField members of each decoded
// compound record.
func positionsFromRecords[R ~map[string]interface{}](records []R, xField, yField string) ([]Position, error) {
	out := make([]Position, len(records))
	for i, rec := range records {
		x, err := numericField(rec, xField)
		if err != nil {
			return nil, fmt.Errorf("mapping record %d: %w", i, err)
		}
		y, err := numericField(rec, yField)
		if err != nil {
			return nil, fmt.Errorf("mapping record %d: %w", i, err)
		}
		out[i] = Position{x, y}
	}
	return out, nil
}

func numericField(rec map[string]interface{}, name string) (float64, error) {
	v, ok := rec[name]
	if !ok {
		return 0, fmt.Errorf("field %q missing", name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("field %q has non-numeric type %T", name, v)
	}
}
