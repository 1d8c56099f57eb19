package h5store

import (
	"fmt"

	"github.com/scigolib/hdf5"

	"github.com/scigolib/chime/internal/utils"
)

// Create writes a CHIME container at path, replacing any existing file.
//
// sig holds shape.Channels*shape.Frames samples in channel-major order.
// mapping holds shape.Channels records of MappingColumns values each.
func Create(path string, shape Shape, sig, mapping []float64) (err error) {
	if shape.Channels == 0 || shape.Frames == 0 {
		return fmt.Errorf("empty signal shape %dx%d", shape.Channels, shape.Frames)
	}
	if uint64(len(sig)) != shape.Channels*shape.Frames {
		return fmt.Errorf("signal has %d values, want %d", len(sig), shape.Channels*shape.Frames)
	}
	if uint64(len(mapping)) != shape.Channels*MappingColumns {
		return fmt.Errorf("mapping has %d values, want %d", len(mapping), shape.Channels*MappingColumns)
	}

	fw, err := hdf5.CreateForWrite(path, hdf5.CreateTruncate)
	if err != nil {
		return utils.FileError("create", err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = utils.FileError("close", cerr)
		}
	}()

	if err := writeMatrix(fw, SignalKey, []uint64{shape.Channels, shape.Frames}, sig); err != nil {
		return err
	}
	return writeMatrix(fw, MappingKey, []uint64{shape.Channels, MappingColumns}, mapping)
}

func writeMatrix(fw *hdf5.FileWriter, key string, dims []uint64, data []float64) error {
	ds, err := fw.CreateDataset("/"+key, hdf5.Float64, dims)
	if err != nil {
		return utils.DatasetError("create", key, err)
	}
	if err := ds.Write(data); err != nil {
		return utils.DatasetError("write", key, err)
	}
	return nil
}
