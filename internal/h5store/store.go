// Package h5store reads and writes CHIME recording containers.
//
// A CHIME container is an HDF5 file with two root datasets:
//
//	sig      numeric (channels x frames) sample matrix
//	mapping  one record per channel; fields 2 and 3 are the (x, y) electrode position
//
// The package is a thin layer over github.com/scigolib/hdf5. It locates the
// datasets, reports the signal shape and converts reads into flat float64
// buffers. It never interprets the samples.
package h5store

import (
	"errors"
	"fmt"

	"github.com/scigolib/hdf5"

	"github.com/scigolib/chime/internal/utils"
)

// Dataset keys inside a CHIME container.
const (
	SignalKey  = "sig"
	MappingKey = "mapping"
)

// Mapping record layout: (channel, electrode, x, y).
const (
	MappingColumns = 4
	xColumn        = 2
	yColumn        = 3
)

// ErrNotFound is returned when a required dataset is missing from the container.
var ErrNotFound = errors.New("dataset not found")

// Shape is the (channels, frames) extent of the signal matrix.
type Shape struct {
	Channels uint64
	Frames   uint64
}

// Store is an open CHIME container. It is not safe for concurrent use.
type Store struct {
	path    string
	file    *hdf5.File
	sig     *hdf5.Dataset
	mapping *hdf5.Dataset
	shape   Shape
}

// Open opens the container at path read-only and resolves the signal and
// mapping datasets.
func Open(path string) (*Store, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, utils.FileError("open", err)
	}

	s := &Store{path: path, file: f}
	if err := s.resolve(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) resolve() error {
	s.sig = findDataset(s.file, SignalKey)
	if s.sig == nil {
		return fmt.Errorf("%q: %w", SignalKey, ErrNotFound)
	}
	s.mapping = findDataset(s.file, MappingKey)
	if s.mapping == nil {
		return fmt.Errorf("%q: %w", MappingKey, ErrNotFound)
	}

	info, err := describe(s.sig)
	if err != nil {
		return utils.DatasetError("describe", SignalKey, err)
	}
	if len(info.dims) != 2 {
		return fmt.Errorf("signal must be 2-D, got %d dimensions", len(info.dims))
	}
	s.shape = Shape{Channels: info.dims[0], Frames: info.dims[1]}
	return nil
}

// findDataset returns the dataset stored under /key, or nil.
func findDataset(f *hdf5.File, key string) *hdf5.Dataset {
	want := "/" + key
	var found *hdf5.Dataset
	f.Walk(func(path string, obj hdf5.Object) {
		if found != nil {
			return
		}
		if ds, ok := obj.(*hdf5.Dataset); ok && path == want {
			found = ds
		}
	})
	return found
}

// Path returns the file name the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Shape returns the signal matrix extent.
func (s *Store) Shape() Shape {
	return s.shape
}

// ReadFrames reads frames [start, end) of every channel. The result is
// row-major: channel c occupies result[c*(end-start) : (c+1)*(end-start)].
func (s *Store) ReadFrames(start, end uint64) ([]float64, error) {
	if s.file == nil {
		return nil, errors.New("store is closed")
	}
	if start > end || end > s.shape.Frames {
		return nil, fmt.Errorf("frame window [%d, %d) outside [0, %d)", start, end, s.shape.Frames)
	}

	count := end - start
	if count == 0 || s.shape.Channels == 0 {
		return []float64{}, nil
	}

	var data []float64
	if start == 0 && end == s.shape.Frames {
		full, err := s.sig.Read()
		if err != nil {
			return nil, utils.DatasetError("read", SignalKey, err)
		}
		data = full
	} else {
		raw, err := s.sig.ReadSlice([]uint64{0, start}, []uint64{s.shape.Channels, count})
		if err != nil {
			return nil, utils.DatasetError("slice", SignalKey, err)
		}
		slice, ok := raw.([]float64)
		if !ok {
			return nil, fmt.Errorf("signal slice has unsupported element type %T", raw)
		}
		data = slice
	}
	if err := checkFrameCount(data, s.shape.Channels, count); err != nil {
		return nil, err
	}
	return data, nil
}

// checkFrameCount rejects a read that did not return channels*count samples.
func checkFrameCount(data []float64, channels, count uint64) error {
	if uint64(len(data)) != channels*count {
		return fmt.Errorf("signal read returned %d values, want %d", len(data), channels*count)
	}
	return nil
}

// Close releases the underlying file. It is safe to call Close multiple times.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.sig = nil
	s.mapping = nil
	return err
}
