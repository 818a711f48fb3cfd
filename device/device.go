// Copyright 2025 The Krylo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device reports execution-device capabilities and provides the
// stream and event primitives the reduction engine schedules on.
package device

import (
	"github.com/krylo-hpc/krylo/internal/device"
)

// Device is the capability report of the detected execution device.
type Device = device.Device

// Dim3 is a three-dimensional launch extent.
type Dim3 = device.Dim3

// Stream executes submitted work in order on a dedicated goroutine.
type Stream = device.Stream

// Event is a reusable completion event recorded on a stream.
type Event = device.Event

// Detect probes for a GPU adapter and falls back to a CPU capability report.
func Detect() *Device {
	return device.Detect()
}

// NewStream creates a running stream.
func NewStream() *Stream {
	return device.NewStream()
}

// NewEvent creates an unarmed event.
func NewEvent() *Event {
	return device.NewEvent()
}
