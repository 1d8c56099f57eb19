package h5store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/hdf5"
)

// datasetInfo is the part of a dataset header the store needs.
type datasetInfo struct {
	compound bool
	dims     []uint64
}

// describe extracts the element class and dimensions of a dataset from the
// summary produced by (*hdf5.Dataset).Info, e.g.
//
//	Dataset: float (size=8 bytes), 2D array [4 x 100], contiguous (address=0x320, size=3200)
func describe(ds *hdf5.Dataset) (*datasetInfo, error) {
	s, err := ds.Info()
	if err != nil {
		return nil, err
	}
	return parseInfo(s)
}

func parseInfo(s string) (*datasetInfo, error) {
	body := strings.TrimPrefix(s, "Dataset: ")
	info := &datasetInfo{
		compound: strings.HasPrefix(body, "compound"),
	}

	if strings.Contains(body, ", scalar,") {
		return info, nil
	}

	marker := strings.Index(body, "D array [")
	if marker < 0 {
		return nil, fmt.Errorf("no dataspace in dataset info %q", s)
	}
	open := marker + len("D array [")
	closing := strings.IndexByte(body[open:], ']')
	if closing < 0 {
		return nil, fmt.Errorf("unterminated dimensions in dataset info %q", s)
	}

	fields := strings.Fields(strings.ReplaceAll(body[open:open+closing], " x ", " "))
	info.dims = make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad dimension %q in dataset info: %w", f, err)
		}
		info.dims = append(info.dims, n)
	}
	return info, nil
}
