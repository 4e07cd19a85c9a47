package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"unsafe"

	"github.com/mlandau/gridflow/field"
	"github.com/mlandau/gridflow/geom"
)

var end = binary.LittleEndian

// SnapshotHeader describes the binary layout of a particle snapshot. All
// fields are fixed-size so the header can be read back on any platform.
type SnapshotHeader struct {
	Type   TypeInfo
	Domain DomainInfo
	Step   StepInfo
}

type TypeInfo struct {
	Endianness int64
	HeaderSize int64
	Rank       int64
	Particles  int64
}

type DomainInfo struct {
	LowerX, LowerY float64
	UpperX, UpperY float64
	CellsX, CellsY int64
}

type StepInfo struct {
	Step   int64
	Time   float64
	Radius float64
}

// Endianness flag written when the snapshot is little endian. Snapshots of
// any endianness can be read.
const littleEndianFlag int64 = -1

// WriteSnapshot writes the particle positions and velocities of an unbatched
// 2D cloud to wr: a SnapshotHeader, the flattened positions, then the
// flattened velocities, all little endian.
func WriteSnapshot(wr io.Writer, step int, time float64, particles *field.Cloud, cells []int) error {
	hd := SnapshotHeader{}
	hd.Type.Endianness = littleEndianFlag
	hd.Type.HeaderSize = int64(unsafe.Sizeof(hd))
	hd.Type.Rank = int64(particles.Rank())
	hd.Type.Particles = int64(len(particles.Points))

	hd.Domain.LowerX = particles.Bounds.Lower[0]
	hd.Domain.LowerY = particles.Bounds.Lower[1]
	hd.Domain.UpperX = particles.Bounds.Upper[0]
	hd.Domain.UpperY = particles.Bounds.Upper[1]
	hd.Domain.CellsX = int64(cells[0])
	hd.Domain.CellsY = int64(cells[1])

	hd.Step.Step = int64(step)
	hd.Step.Time = time
	hd.Step.Radius = particles.Radius

	if err := binary.Write(wr, end, &hd); err != nil {
		return err
	}
	if err := binary.Write(wr, end, flatten(particles.Points)); err != nil {
		return err
	}
	return binary.Write(wr, end, flatten(particles.Values))
}

// WriteSnapshotFile writes a snapshot to a new file at fname.
func WriteSnapshotFile(fname string, step int, time float64, particles *field.Cloud, cells []int) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSnapshot(f, step, time, particles, cells)
}

// ReadSnapshot reads back a snapshot written by WriteSnapshot.
func ReadSnapshot(rd io.Reader) (*SnapshotHeader, *field.Cloud, error) {
	hd := &SnapshotHeader{}
	order := binary.ByteOrder(end)
	if err := binary.Read(rd, order, hd); err != nil {
		return nil, nil, err
	}
	if hd.Type.Endianness != littleEndianFlag {
		order = binary.BigEndian
		swapHeader(hd)
	}
	if hd.Type.HeaderSize != int64(unsafe.Sizeof(*hd)) {
		return nil, nil, fmt.Errorf(
			"Snapshot header is %d bytes, but this reader expects %d.",
			hd.Type.HeaderSize, unsafe.Sizeof(*hd),
		)
	}

	n := int(hd.Type.Particles)
	rank := int(hd.Type.Rank)
	flat := make([]float64, n*rank)
	if err := binary.Read(rd, order, flat); err != nil {
		return nil, nil, err
	}
	points := unflatten(flat, rank)
	flat = make([]float64, n*rank)
	if err := binary.Read(rd, order, flat); err != nil {
		return nil, nil, err
	}
	values := unflatten(flat, rank)

	bounds := geom.NewBox(
		[]float64{hd.Domain.LowerX, hd.Domain.LowerY},
		[]float64{hd.Domain.UpperX, hd.Domain.UpperY},
	)
	return hd, field.NewCloud(points, values, hd.Step.Radius, bounds), nil
}

// swapHeader corrects a header that was read with the wrong byte order: the
// misread fields serialize back to the original bytes, which the right order
// then decodes.
func swapHeader(hd *SnapshotHeader) {
	buf := &bytes.Buffer{}
	binary.Write(buf, end, hd)
	binary.Read(buf, binary.BigEndian, hd)
}

func flatten(vecs [][]float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float64, 0, len(vecs)*len(vecs[0]))
	for _, v := range vecs {
		out = append(out, v...)
	}
	return out
}

func unflatten(flat []float64, rank int) [][]float64 {
	out := make([][]float64, len(flat)/rank)
	for i := range out {
		out[i] = flat[i*rank : (i+1)*rank]
	}
	return out
}
