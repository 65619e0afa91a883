package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/devblok/ignis/core"
	"github.com/devblok/ignis/device"
	"github.com/devblok/ignis/utility/capture"
	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"
)

// Static resources for the vendor lookup table
var (
	StaticResources packr.Box

	vendorNames map[string]string
)

func init() {
	StaticResources = packr.NewBox("./resources")

	resource, err := StaticResources.FindString("vendors.json")
	if err != nil {
		log.Fatal(err)
	}
	if err := json.Unmarshal([]byte(resource), &vendorNames); err != nil {
		log.Fatal(err)
	}
}

var (
	captureFile = flag.String("capture", "", "write the enumeration report to a capture file")
	scanAll     = flag.Bool("scan-all", defaultScanAll(), "consider every device, not only the first")
)

func defaultScanAll() bool {
	val, err := strconv.ParseBool(envy.Get("IGNIS_SCAN_ALL", "false"))
	if err != nil {
		return false
	}
	return val
}

// deviceEntry decorates a physical device with the vendor
// name resolved from its vendor id.
type deviceEntry struct {
	device.PhysicalDevice
	Vendor string `json:",omitempty"`
}

type report struct {
	Backend   string
	Devices   []deviceEntry
	Selection *device.Selection `json:",omitempty"`
	Failure   string            `json:",omitempty"`
}

func main() {
	flag.Parse()

	backend := core.NewVulkanBackend(nil)
	if err := backend.Init(); err != nil {
		log.Fatal(err)
	}

	cfg := core.DefaultConfiguration()
	if err := backend.CreateInstance(cfg.Application, nil, nil); err != nil {
		log.Fatal(err)
	}
	defer backend.DestroyInstance()

	devices, err := backend.PhysicalDevices()
	if err != nil {
		log.Fatal(err)
	}
	for i := range devices {
		families, err := backend.QueueFamilies(devices[i].ID)
		if err != nil {
			log.Fatal(err)
		}
		devices[i].QueueFamilies = families
	}

	selector := device.Selector{
		Required:       cfg.Device.Required,
		ScanAllDevices: *scanAll,
	}
	selection, selErr := selector.Select(devices)

	out := report{Backend: backend.Name()}
	for _, dev := range devices {
		out.Devices = append(out.Devices, deviceEntry{
			PhysicalDevice: dev,
			Vendor:         vendorNames[strconv.Itoa(dev.VendorID)],
		})
	}
	if selErr != nil {
		out.Failure = selErr.Error()
	} else {
		out.Selection = &selection
	}

	if bytes, err := json.MarshalIndent(out, "", "  "); err == nil {
		fmt.Printf("%s\n", bytes)
	} else {
		log.Fatal(err)
	}

	if *captureFile != "" {
		rec := capture.Report{
			Backend: backend.Name(),
			Devices: devices,
		}
		if selErr != nil {
			rec.Failure = selErr.Error()
		} else {
			rec.Selection = &selection
		}

		f, err := os.Create(*captureFile)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := capture.Write(f, capture.Header{}, rec); err != nil {
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		log.Infof("capture written to %s", *captureFile)
	}
}
