package main

import "github.com/devblok/ignis/core"

func main() {
	appCore := core.NewCore(core.NewVulkanBackend(nil), core.DefaultConfiguration())
	if err := appCore.Initialise(nil, false); err != nil {
		panic(err)
	}

	appCore.Destroy()
}
