package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/wippyai/bitwire-runtime/alloc/linear"
	"github.com/wippyai/bitwire-runtime/bitstream"
	"github.com/wippyai/bitwire-runtime/errors"
	"github.com/wippyai/bitwire-runtime/gen/pmr"
)

type encoded struct {
	alternative string
	data        []byte
	bits        uint64
}

func encodeValue(tag bool, value int64) (encoded, error) {
	d, err := pmr.NewBoolParamChoice(nil)
	if err != nil {
		return encoded{}, err
	}
	defer d.Close()

	alt := "valueA"
	if tag {
		lo, hi := bitstream.SignedRange(8)
		if value < lo || value > hi {
			return encoded{}, errors.OutOfRange([]string{"BoolParamChoice", alt}, "int8", value, lo, hi)
		}
		err = d.SetValueA(int8(value))
	} else {
		alt = "valueB"
		lo, hi := bitstream.SignedRange(16)
		if value < lo || value > hi {
			return encoded{}, errors.OutOfRange([]string{"BoolParamChoice", alt}, "int16", value, lo, hi)
		}
		err = d.SetValueB(int16(value))
	}
	if err != nil {
		return encoded{}, err
	}

	view := d.View(tag)
	size, err := view.BitSizeOf(0)
	if err != nil {
		return encoded{}, err
	}

	w := bitstream.NewBoundedWriter(size)
	defer w.Release()
	if err := view.Write(w); err != nil {
		return encoded{}, err
	}
	data, err := w.Bytes()
	if err != nil {
		return encoded{}, err
	}
	return encoded{alternative: alt, data: data, bits: size}, nil
}

type decoded struct {
	alternative string
	value       int64
	consumed    uint64
	trailing    uint64
	canonical   []byte
	offset      uint32
}

func decodeHex(ctx context.Context, tag bool, hexStr string, pages uint32) (decoded, error) {
	raw, err := hex.DecodeString(strings.ReplaceAll(strings.TrimPrefix(hexStr, "0x"), " ", ""))
	if err != nil {
		return decoded{}, fmt.Errorf("parse hex: %w", err)
	}

	r := bitstream.NewReader(raw)
	d, view, err := pmr.ReadBoolParamChoice(r, nil, tag)
	if err != nil {
		return decoded{}, err
	}
	defer d.Close()

	out := decoded{consumed: r.BitPosition(), trailing: r.Remaining()}
	if tag {
		v, err := view.ValueA()
		if err != nil {
			return decoded{}, err
		}
		out.alternative, out.value = "valueA", int64(v)
	} else {
		v, err := view.ValueB()
		if err != nil {
			return decoded{}, err
		}
		out.alternative, out.value = "valueB", int64(v)
	}

	if pages > 0 {
		if err := placeCanonical(ctx, &out, d, pages); err != nil {
			return decoded{}, err
		}
	}
	return out, nil
}

// placeCanonical stores the decoded value's Canonical ABI image in a
// linear memory and reads it back.
func placeCanonical(ctx context.Context, out *decoded, d *pmr.BoolParamChoice, pages uint32) (err error) {
	res, err := linear.New(ctx, pages)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Close(ctx); err == nil {
			err = cerr
		}
	}()

	schema := pmr.BoolParamChoiceSchema()
	lay := schema.Layout()
	off, info, err := res.AllocateCanonical(schema.Describe())
	if err != nil {
		return err
	}
	defer res.FreeCanonical(off, info)

	idx := d.ObjectChoice.Index()
	img := make([]byte, lay.Size)
	img[0] = byte(idx)
	payload := img[lay.PayloadOffset:]
	switch idx {
	case pmr.ValueAIndex:
		payload[0] = byte(int8(out.value))
	case pmr.ValueBIndex:
		binary.LittleEndian.PutUint16(payload, uint16(int16(out.value)))
	}

	mem := res.Memory()
	if !mem.Write(off, img) {
		return errors.Wrap(errors.PhaseWrite, errors.KindAllocation, nil,
			fmt.Sprintf("canonical write out of bounds at offset %d", off))
	}
	back, ok := mem.Read(off, uint32(len(img)))
	if !ok {
		return errors.Wrap(errors.PhaseRead, errors.KindAllocation, nil,
			fmt.Sprintf("canonical read out of bounds at offset %d", off))
	}
	out.canonical = append([]byte(nil), back...)
	out.offset = off
	return nil
}
