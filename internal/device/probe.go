package device

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

// probeAdapter requests a WebGPU adapter and device to confirm an accelerator
// is reachable, returning the adapter name. All handles are released before
// returning; the engine only needs the capability report.
func probeAdapter() (name string, err error) {
	// The native wgpu library may be absent entirely, which surfaces as a
	// panic inside CreateInstance.
	defer func() {
		if r := recover(); r != nil {
			name = ""
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return "", fmt.Errorf("webgpu: failed to create instance: %w", instanceErr)
	}
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return "", fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	info, infoErr := adapter.GetInfo()
	if infoErr != nil {
		adapter.Release()
		instance.Release()
		return "", fmt.Errorf("webgpu: failed to read adapter info: %w", infoErr)
	}

	dev, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return "", fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	dev.Release()
	adapter.Release()
	instance.Release()

	return fmt.Sprintf("%s %s", info.Vendor, info.Device), nil
}
