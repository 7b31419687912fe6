package main

import (
	"runtime"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gravik3d/gravik/core"
	"github.com/gravik3d/gravik/device"
)

func init() {
	runtime.LockOSThread()
}

// loadConfiguration overlays environment variables (optionally from a
// .env file) on the default configuration.
func loadConfiguration() core.Configuration {
	_ = godotenv.Load()

	cfg := core.DefaultConfiguration()
	cfg.Instance.AppName = "Gravik"
	cfg.Instance.DebugMode = envy.Get("GRAVIK_DEBUG", "") != ""
	cfg.Renderer.ScreenWidth = envUint32("GRAVIK_WIDTH", cfg.Renderer.ScreenWidth)
	cfg.Renderer.ScreenHeight = envUint32("GRAVIK_HEIGHT", cfg.Renderer.ScreenHeight)
	cfg.Renderer.SwapchainSize = envUint32("GRAVIK_SWAPCHAIN_SIZE", cfg.Renderer.SwapchainSize)
	return cfg
}

func envUint32(key string, fallback uint32) uint32 {
	value, err := strconv.ParseUint(envy.Get(key, strconv.FormatUint(uint64(fallback), 10)), 10, 32)
	if err != nil {
		log.WithField("key", key).Warn("ignoring unparsable environment override")
		return fallback
	}
	return uint32(value)
}

func newWindow(cfg core.RendererConfiguration) *sdl.Window {
	window, err := sdl.CreateWindow("Gravik",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN)
	if err != nil {
		log.WithError(err).Fatal("window creation failed")
	}
	return window
}

func main() {
	configuration := loadConfiguration()
	if configuration.Instance.DebugMode {
		log.SetLevel(log.DebugLevel)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.WithError(err).Fatal("SDL initialisation failed")
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.WithError(err).Fatal("Vulkan library load failed")
	}
	defer sdl.VulkanUnloadLibrary()

	window := newWindow(configuration.Renderer)
	defer window.Destroy()

	bringUpStart := hrtime.Now()

	configuration.Instance.Extensions = window.VulkanGetInstanceExtensions()
	driver, err := device.NewVulkanDriver(
		device.DefaultApplicationInfo,
		sdl.VulkanGetVkGetInstanceProcAddr(),
		configuration.Instance,
	)
	if err != nil {
		log.WithError(err).Fatal("driver bring-up failed")
	}
	defer driver.Destroy()

	surfaceHandle, err := window.VulkanCreateSurface(driver.Instance())
	if err != nil {
		log.WithError(err).Fatal("surface creation failed")
	}

	surfaceCtx := core.NewSurfaceContext(device.NewVulkanSurface(driver, surfaceHandle))

	deviceCtx, err := core.NewDeviceContext(surfaceCtx, driver, configuration.Device)
	if err != nil {
		surfaceCtx.Release()
		log.WithError(err).Fatal("device bring-up failed")
	}
	log.WithField("device", deviceCtx.Physical().Name).Info("device selected")

	swapchainCtx, err := core.NewSwapchainContext(deviceCtx, configuration.Renderer)
	if err != nil {
		deviceCtx.Release()
		surfaceCtx.Release()
		log.WithError(err).Fatal("swapchain bring-up failed")
	}

	renderPassCtx, err := core.NewRenderPassContext(swapchainCtx)
	if err != nil {
		swapchainCtx.Release()
		deviceCtx.Release()
		surfaceCtx.Release()
		log.WithError(err).Fatal("render pass bring-up failed")
	}

	log.WithFields(log.Fields{
		"took":   hrtime.Since(bringUpStart),
		"images": swapchainCtx.ImageCount(),
	}).Info("graphics context ready")

	ticker := core.NewTime(configuration.Time)
	defer ticker.Stop()

	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-ticker.FpsTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
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

	// The hardware may still reference chain resources; drain it
	// before any context goes down.
	if err := deviceCtx.WaitIdle(); err != nil {
		log.WithError(err).Error("device idle wait failed")
	}

	renderPassCtx.Release()
	swapchainCtx.Release()
	deviceCtx.Release()
	surfaceCtx.Release()
}
