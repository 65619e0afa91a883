package main

import (
	"runtime"
	"strconv"

	"github.com/devblok/ignis/core"
	"github.com/devblok/ignis/device"
	"github.com/gobuffalo/envy"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	runtime.LockOSThread()
}

// Essential globals
var (
	appCore   *core.Core
	sdlWindow *sdl.Window
)

var configuration = core.Configuration{
	Application: core.ApplicationConfiguration{
		Name:          "Ignis",
		Version:       core.Version{Major: 1},
		Engine:        "Ignis",
		EngineVersion: core.Version{Major: 1},
		APIVersion:    core.Version{Major: 1},
	},
	Instance: core.InstanceConfiguration{
		ValidationLayers: []string{
			"VK_LAYER_KHRONOS_validation",
		},
	},
	Device: core.DeviceConfiguration{
		Required: device.Graphics | device.Compute,
		Extensions: []string{
			"VK_KHR_swapchain",
		},
	},
	Time: core.TimeConfiguration{
		EventPollDelay: 16,
	},
}

const (
	windowWidth  = 800
	windowHeight = 600
)

func newWindow() *sdl.Window {
	window, err := sdl.CreateWindow("Ignis",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		windowWidth,
		windowHeight,
		sdl.WINDOW_VULKAN)
	if err != nil {
		panic(err)
	}
	return window
}

func main() {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		panic(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		panic(err)
	}
	defer sdl.VulkanUnloadLibrary()

	sdlWindow = newWindow()
	defer sdlWindow.Destroy()

	validation, err := strconv.ParseBool(envy.Get("IGNIS_VALIDATION", "true"))
	if err != nil {
		validation = true
	}

	start := hrtime.Now()

	backend := core.NewVulkanBackend(sdl.VulkanGetVkGetInstanceProcAddr())
	appCore = core.NewCore(backend, configuration)
	if err := appCore.Initialise(sdlWindow.VulkanGetInstanceExtensions(), validation); err != nil {
		log.Fatal(err)
	}

	selection := appCore.Selection()
	family, _ := selection.Device.Family(selection.QueueFamily)
	log.Infof("using device: %s", selection.Device.Name)
	log.Infof("using queue family %d (%s), queue %#x", family.Index, family.Flags, appCore.Queue())
	log.Infof("initialised in %s", hrtime.Since(start))

	time := core.NewTime(configuration.Time)
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("Event loop exited")
			break EventLoop
		case <-time.EventTicker().C:
			var event sdl.Event
			for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		}
	}

	appCore.Destroy()
}
