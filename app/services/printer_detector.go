package services

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.bug.st/serial"
)

// DetectedPrinter represents a printer candidate found on the system
type DetectedPrinter struct {
	Name           string `json:"name"`
	Type           string `json:"type"`            // "usb", "network", "serial"
	ConnectionType string `json:"connection_type"` // "usb", "ethernet", "serial"
	Address        string `json:"address"`
	Port           int    `json:"port"`
	Status         string `json:"status"` // "online", "offline", "unknown"
}

// DetectSystemPrinters enumerates printer candidates attached to this
// host: USB device nodes (or CUPS entries) plus any serial ports, which
// many thermal printers hang off
func DetectSystemPrinters() ([]DetectedPrinter, error) {
	var printers []DetectedPrinter
	var err error

	switch runtime.GOOS {
	case "linux":
		printers, err = detectLinuxPrinters()
	case "darwin":
		printers, err = detectMacOSPrinters()
	default:
		return nil, fmt.Errorf("printer detection not supported on %s", runtime.GOOS)
	}
	if err != nil {
		return nil, err
	}

	// Serial enumeration failing should not hide the USB candidates
	if ports, err := DetectSerialPorts(); err == nil {
		for _, port := range ports {
			printers = append(printers, DetectedPrinter{
				Name:           filepath.Base(port),
				Type:           "serial",
				ConnectionType: "serial",
				Address:        port,
				Status:         "unknown",
			})
		}
	}

	return printers, nil
}

// detectLinuxPrinters looks for USB line-printer device nodes
func detectLinuxPrinters() ([]DetectedPrinter, error) {
	var printers []DetectedPrinter

	for _, pattern := range []string{"/dev/usb/lp*", "/dev/lp*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, device := range matches {
			printers = append(printers, DetectedPrinter{
				Name:           filepath.Base(device),
				Type:           "usb",
				ConnectionType: "usb",
				Address:        device,
				Status:         "unknown",
			})
		}
	}

	return printers, nil
}

// detectMacOSPrinters queries CUPS for registered printers
func detectMacOSPrinters() ([]DetectedPrinter, error) {
	output, err := exec.Command("lpstat", "-p").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to query lpstat: %w", err)
	}

	var printers []DetectedPrinter
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "printer" {
			continue
		}
		status := "unknown"
		if strings.Contains(line, "idle") {
			status = "online"
		} else if strings.Contains(line, "disabled") {
			status = "offline"
		}
		printers = append(printers, DetectedPrinter{
			Name:           fields[1],
			Type:           "usb",
			ConnectionType: "usb",
			Address:        fields[1],
			Status:         status,
		})
	}
	return printers, nil
}

// DetectSerialPorts lists the serial ports available on this host
func DetectSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
