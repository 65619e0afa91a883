// Copyright (c) 2022 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package capture is an api for an lz4 backed device capture format.
// A capture records what the backend saw on a machine: the enumerated
// devices with their queue families, and the selection outcome or the
// failure that stopped it. Captures are taken on one machine and
// inspected on another, so the format is designed to be memory mapped.
// The header is read in place and the report payload only gets
// decompressed when asked for. A capture holds exactly one report and
// cannot be appended to.
package capture

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"

	"github.com/devblok/ignis/device"
)

// package errors
var (
	ErrFileFormat = errors.New("corrupted or not a capture file")
)

// Sizes relevant to the header of file
const (
	MagicLength      = 4
	HeaderSizeLength = 8
)

const formatVersion = 1

// Header is the file header for capture files.
type Header struct {
	ID             string
	Host           string
	Created        int64
	Version        int64
	PayloadSize    int64
	CompressedSize int64
}

// Report is the payload of a capture file. Either Selection
// or Failure is set, depending on how the bootstrap went.
type Report struct {
	Backend   string
	Devices   []device.PhysicalDevice
	Selection *device.Selection
	Failure   string
}

func int64ToBinary(num int64) []byte {
	buf := bytes.NewBuffer([]byte{})
	if err := binary.Write(buf, binary.LittleEndian, &num); err != nil {
		panic(err) // If this thing fails you're probably having bigger problems
	}
	return buf.Bytes()
}

func binaryToint64(bts []byte) (int64, error) {
	var num int64
	if err := binary.Read(bytes.NewReader(bts), binary.LittleEndian, &num); err != nil {
		return 0, err
	}
	return num, nil
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	enc := gob.NewEncoder(&encoded)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(bts))
	if err := dec.Decode(obj); err != nil {
		return err
	}
	return nil
}
