package core

import (
	"testing"

	"github.com/devblok/ignis/device"
	vk "github.com/vulkan-go/vulkan"
)

func TestCapabilityFlags(t *testing.T) {
	flags := capabilityFlags(vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit))
	if !flags.Has(device.Graphics | device.Compute) {
		t.Error("graphics and compute bits should be set")
	}
	if flags.Has(device.Transfer) {
		t.Error("transfer bit should not be set")
	}

	all := capabilityFlags(vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit | vk.QueueSparseBindingBit))
	if !all.Has(device.Graphics | device.Compute | device.Transfer | device.SparseBinding) {
		t.Error("all bits should be set")
	}

	if none := capabilityFlags(0); none != 0 {
		t.Errorf("no bits should be set, got %s", none)
	}
}

func TestMakeVersion(t *testing.T) {
	if makeVersion(Version{Major: 1, Minor: 2, Patch: 3}) != vk.MakeVersion(1, 2, 3) {
		t.Error("version does not pack correctly")
	}
}
