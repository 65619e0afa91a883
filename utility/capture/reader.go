// Copyright (c) 2022 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"strings"

	"github.com/pierrec/lz4"
)

// Sizes a well formed capture never reaches. A size field outside
// these bounds means a corrupted file, not a bigger capture.
const (
	maxHeaderSize = 1 << 16
	maxReportSize = 1 << 28
)

// Open opens the capture read from r. It will also check
// if the file is actually a capture, will return an error
// when file incorrect. Only the header is read up front, the
// report stays compressed until Report is called.
func Open(r io.ReaderAt) (*Snapshot, error) {
	magic := make([]byte, MagicLength)
	if num, err := r.ReadAt(magic, 0); err != nil {
		return nil, err
	} else if num < MagicLength || strings.Compare(string(magic), "IGC\x00") != 0 {
		return nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, HeaderSizeLength)
	if num, err := r.ReadAt(headerSizeBytes, MagicLength); err != nil {
		return nil, err
	} else if num < HeaderSizeLength {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(headerSizeBytes)
	if err != nil {
		return nil, ErrFileFormat
	}
	if headerSize <= 0 || headerSize > maxHeaderSize {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, MagicLength+HeaderSizeLength); err != nil && err != io.EOF {
		return nil, err
	} else if int64(num) < headerSize {
		return nil, ErrFileFormat
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, ErrFileFormat
	}

	return &Snapshot{
		reader:        r,
		header:        header,
		payloadOffset: MagicLength + HeaderSizeLength + headerSize,
	}, nil
}

// Snapshot is an opened capture file. The underlying reader
// is only touched when the report is requested.
type Snapshot struct {
	reader io.ReaderAt

	header        Header
	payloadOffset int64
}

// Header returns the capture file header.
func (s *Snapshot) Header() Header {
	return s.header
}

// Report decompresses and returns the recorded report.
func (s *Snapshot) Report() (Report, error) {
	if s.header.CompressedSize <= 0 || s.header.CompressedSize > maxReportSize {
		return Report{}, ErrFileFormat
	}
	compressed := make([]byte, s.header.CompressedSize)
	if num, err := s.reader.ReadAt(compressed, s.payloadOffset); err != nil && err != io.EOF {
		return Report{}, err
	} else if int64(num) < s.header.CompressedSize {
		return Report{}, ErrFileFormat
	}

	payload, err := ioutil.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return Report{}, err
	}

	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}
