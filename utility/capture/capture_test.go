// Copyright (c) 2022 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture_test

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/devblok/ignis/device"
	"github.com/devblok/ignis/utility/capture"
	"golang.org/x/exp/mmap"
)

var testDevices = []device.PhysicalDevice{
	{
		ID:       0,
		VendorID: 4098,
		Name:     "Radeon RX 580",
		QueueFamilies: []device.QueueFamily{
			{Index: 0, Flags: device.Graphics | device.Compute | device.Transfer, Count: 1},
		},
	},
	{
		ID:       1,
		VendorID: 4318,
		Name:     "GeForce GTX 1060",
		QueueFamilies: []device.QueueFamily{
			{Index: 0, Flags: device.Transfer, Count: 2},
			{Index: 1, Flags: device.Graphics | device.Compute, Count: 16},
		},
	},
}

func TestWriteAndRead(t *testing.T) {
	report := capture.Report{
		Backend: "vulkan",
		Devices: testDevices,
		Selection: &device.Selection{
			Device:      testDevices[0],
			QueueFamily: 0,
		},
	}

	buf := bytes.NewBuffer([]byte{})
	if written, err := capture.Write(buf, capture.Header{Host: "test"}, report); err != nil {
		t.Fatal(err)
	} else {
		t.Logf("written %d", written)
	}

	snap, err := capture.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	header := snap.Header()
	if header.ID == "" || header.Created == 0 || header.Version == 0 {
		t.Error("header fields were not filled in")
	}
	if strings.Compare(header.Host, "test") != 0 {
		t.Error("host does not match up")
	}

	result, err := snap.Report()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Devices) != len(testDevices) {
		t.Fatalf("expected %d devices, got %d", len(testDevices), len(result.Devices))
	}
	if strings.Compare(result.Devices[1].Name, testDevices[1].Name) != 0 {
		t.Error("device name does not match up")
	}
	if !result.Devices[1].QueueFamilies[1].Flags.Has(device.Graphics | device.Compute) {
		t.Error("queue family flags do not match up")
	}
	if result.Selection == nil || result.Selection.QueueFamily != 0 {
		t.Error("selection does not match up")
	}
}

func TestWriteAndReadFailure(t *testing.T) {
	report := capture.Report{
		Backend: "vulkan",
		Devices: testDevices,
		Failure: "no queue family satisfies the required capabilities",
	}

	buf := bytes.NewBuffer([]byte{})
	if _, err := capture.Write(buf, capture.Header{}, report); err != nil {
		t.Fatal(err)
	}

	snap, err := capture.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	result, err := snap.Report()
	if err != nil {
		t.Fatal(err)
	}
	if result.Selection != nil {
		t.Error("failed capture should not carry a selection")
	}
	if strings.Compare(result.Failure, report.Failure) != 0 {
		t.Error("failure does not match up")
	}
}

func TestOpenmmap(t *testing.T) {
	f, err := ioutil.TempFile("", "capture")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	report := capture.Report{
		Backend: "vulkan",
		Devices: testDevices,
	}
	if _, err := capture.Write(f, capture.Header{}, report); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := mmap.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	snap, err := capture.Open(r)
	if err != nil {
		t.Fatal(err)
	}

	result, err := snap.Report()
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Devices) != len(testDevices) {
		t.Error("devices do not match up")
	}
}

func TestOpenFileFormat(t *testing.T) {
	buf := bytes.NewBuffer([]byte{})
	if _, err := capture.Write(buf, capture.Header{}, capture.Report{}); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	copy(raw, "XXXX")
	if _, err := capture.Open(bytes.NewReader(raw)); !errors.Is(err, capture.ErrFileFormat) {
		t.Errorf("expected a file format error, got %v", err)
	}

	if _, err := capture.Open(bytes.NewReader([]byte("IG"))); err == nil {
		t.Error("expected an error on a truncated file")
	}
}

func TestOpenCorruptHeaderSize(t *testing.T) {
	for _, size := range []int64{-1, 0, 1 << 62} {
		buf := bytes.NewBuffer([]byte("IGC\x00"))
		if err := binary.Write(buf, binary.LittleEndian, size); err != nil {
			t.Fatal(err)
		}
		if _, err := capture.Open(bytes.NewReader(buf.Bytes())); !errors.Is(err, capture.ErrFileFormat) {
			t.Errorf("header size %d: expected a file format error, got %v", size, err)
		}
	}
}

func TestReportCorruptCompressedSize(t *testing.T) {
	for _, size := range []int64{-1, 0, 1 << 62} {
		raw := captureWithHeader(t, capture.Header{
			ID:             "corrupt",
			Version:        1,
			CompressedSize: size,
		})
		snap, err := capture.Open(bytes.NewReader(raw))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := snap.Report(); !errors.Is(err, capture.ErrFileFormat) {
			t.Errorf("compressed size %d: expected a file format error, got %v", size, err)
		}
	}
}

// captureWithHeader builds a capture file around an arbitrary header,
// bypassing Write which always overwrites the size fields.
func captureWithHeader(t *testing.T, header capture.Header) []byte {
	t.Helper()

	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(header); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte("IGC\x00"))
	if err := binary.Write(buf, binary.LittleEndian, int64(encoded.Len())); err != nil {
		t.Fatal(err)
	}
	buf.Write(encoded.Bytes())
	return buf.Bytes()
}
