package models

import (
	"time"
)

// PrinterConfig represents a configured thermal printer
type PrinterConfig struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Type           string    `json:"type"`            // "usb", "network", "serial", "file"
	ConnectionType string    `json:"connection_type"` // "usb", "ethernet", "serial"
	Address        string    `json:"address"`         // device node, IP address or output path
	Port           int       `json:"port"`            // for network printers, usually 9100
	BaudRate       int       `json:"baud_rate"`       // for serial printers
	Model          string    `json:"model"`
	PaperWidth     int       `json:"paper_width"` // 58mm, 80mm
	IsDefault      bool      `json:"is_default"`
	IsActive       bool      `json:"is_active"`
	PrintLogo      bool      `json:"print_logo"`
	NativeQR       bool      `gorm:"default:true" json:"native_qr"` // firmware supports GS ( k
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PrintJob records one print attempt, successful or not
type PrintJob struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PrinterID   uint      `gorm:"index" json:"printer_id"`
	PrinterName string    `json:"printer_name"`
	Kind        string    `json:"kind"`   // "ticket", "cash_register", "test"
	Status      string    `json:"status"` // "done", "failed"
	Error       string    `json:"error,omitempty"`
	PayloadSize int       `json:"payload_size"`
	Origin      string    `json:"origin"` // "websocket", "rest", "local"
	CreatedAt   time.Time `json:"created_at"`
}
