package services

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"time"

	"CourtPrint/app/config"
	"CourtPrint/app/database"
	"CourtPrint/app/escpos"
	"CourtPrint/app/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.bug.st/serial"
	"gorm.io/gorm"
)

// PrinterService turns ticket payloads into ESC/POS streams and writes
// them to the configured thermal printer. Connections are scoped to a
// single delivery, so concurrent jobs never share a handle.
type PrinterService struct {
	db     *gorm.DB
	logger *LoggerService
	cfg    *config.AppConfig
}

// NewPrinterService creates a new printer service
func NewPrinterService(cfg *config.AppConfig, logger *LoggerService) *PrinterService {
	return &PrinterService{
		db:     database.GetDB(),
		logger: logger,
		cfg:    cfg,
	}
}

// PrintTicket encodes and prints a sale/booking receipt. printerID 0
// selects the default printer.
func (s *PrinterService) PrintTicket(ctx context.Context, data *models.TicketData, printerID uint, origin string) error {
	s.applyEstablishmentDefaults(data)

	printer, err := s.resolvePrinter(printerID)
	if err != nil {
		return err
	}

	payload, err := escpos.GenerateTicketData(data, s.profileFor(printer))
	if err != nil {
		return err
	}

	return s.send(ctx, printer, payload, "ticket", origin)
}

// PrintCashRegisterTicket encodes and prints an end-of-shift closing report
func (s *PrinterService) PrintCashRegisterTicket(ctx context.Context, data *models.CashRegisterTicketData, printerID uint, origin string) error {
	if data.EstablishmentName == "" {
		data.EstablishmentName = s.cfg.Establishment.Name
	}

	printer, err := s.resolvePrinter(printerID)
	if err != nil {
		return err
	}

	payload, err := escpos.GenerateCashRegisterTicketData(data, s.profileFor(printer))
	if err != nil {
		return err
	}

	return s.send(ctx, printer, payload, "cash_register", origin)
}

// TestPrinter prints a sample receipt to verify a printer's connection
func (s *PrinterService) TestPrinter(ctx context.Context, printerID uint) error {
	unit := decimal.NewFromInt(1500)
	data := &models.TicketData{
		EstablishmentName: s.cfg.Establishment.Name,
		OrderNumber:       "PRUEBA-0001",
		ClientName:        "Impresion de prueba",
		Items: []models.TicketItem{
			{Name: "Agua mineral", Quantity: 2, UnitPrice: unit, TotalPrice: unit.Mul(decimal.NewFromInt(2))},
		},
		ConsumptionsTotal: unit.Mul(decimal.NewFromInt(2)),
		TotalAmount:       unit.Mul(decimal.NewFromInt(2)),
		PaidAmount:        unit.Mul(decimal.NewFromInt(2)),
		IsDirectSale:      true,
	}
	if data.EstablishmentName == "" {
		data.EstablishmentName = "CourtPrint"
	}

	printer, err := s.resolvePrinter(printerID)
	if err != nil {
		return err
	}

	payload, err := escpos.GenerateTicketData(data, s.profileFor(printer))
	if err != nil {
		return err
	}

	return s.send(ctx, printer, payload, "test", "local")
}

// send connects, writes the full buffer once and closes; the deferred
// close runs on every exit path, including write failure.
func (s *PrinterService) send(ctx context.Context, printer *models.PrinterConfig, payload []byte, kind, origin string) error {
	err := s.deliver(ctx, printer, payload)
	s.recordJob(printer, kind, origin, len(payload), err)
	if err != nil {
		s.logger.LogError("Print job failed", err, fmt.Sprintf("printer=%s kind=%s", printer.Name, kind))
		return err
	}
	s.logger.LogInfo("Print job done", fmt.Sprintf("printer=%s kind=%s bytes=%d", printer.Name, kind, len(payload)))
	return nil
}

func (s *PrinterService) deliver(ctx context.Context, printer *models.PrinterConfig, payload []byte) error {
	conn, err := s.connectPrinter(printer)
	if err != nil {
		return fmt.Errorf("failed to connect to printer: %w", err)
	}
	defer conn.Close()

	return s.writePayload(ctx, conn, payload)
}

// connectPrinter opens the transport selected by the printer config.
// The handle belongs to the caller, which must close it.
func (s *PrinterService) connectPrinter(printer *models.PrinterConfig) (io.WriteCloser, error) {
	timeout := s.printTimeout()

	switch printer.Type {
	case "usb":
		conn, err := os.OpenFile(printer.Address, os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to open USB printer at %s: %w", printer.Address, err)
		}
		return conn, nil

	case "network":
		address := fmt.Sprintf("%s:%d", printer.Address, printer.Port)
		conn, err := net.DialTimeout("tcp", address, timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to network printer at %s: %w", address, err)
		}
		return conn, nil

	case "serial":
		baud := printer.BaudRate
		if baud == 0 {
			baud = 9600
		}
		port, err := serial.Open(printer.Address, &serial.Mode{BaudRate: baud})
		if err != nil {
			return nil, fmt.Errorf("failed to open serial printer at %s: %w", printer.Address, err)
		}
		return port, nil

	case "file":
		out, err := os.Create(printer.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file at %s: %w", printer.Address, err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported printer type: %s", printer.Type)
}

// writePayload performs the single bulk write, bounded by the configured
// timeout and the caller's context so a stalled device cannot hang the
// agent indefinitely.
func (s *PrinterService) writePayload(ctx context.Context, conn io.WriteCloser, payload []byte) error {
	timeout := s.printTimeout()

	if nc, ok := conn.(net.Conn); ok {
		if err := nc.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
		if _, err := nc.Write(payload); err != nil {
			return fmt.Errorf("transfer failed: %w", err)
		}
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := conn.Write(payload)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("transfer failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("print cancelled: %w", ctx.Err())
	case <-time.After(timeout):
		return fmt.Errorf("transfer timed out after %s", timeout)
	}
}

func (s *PrinterService) printTimeout() time.Duration {
	seconds := s.cfg.Printing.TimeoutSeconds
	if seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}

// IsTransportSupported reports whether this host can drive the given
// transport kind. Callers check it before offering the print action.
func (s *PrinterService) IsTransportSupported(kind string) bool {
	switch kind {
	case "usb":
		// Device-node access; the Windows spooler path is not implemented
		return runtime.GOOS != "windows"
	case "serial":
		ports, err := serial.GetPortsList()
		return err == nil && len(ports) > 0
	case "network", "file":
		return true
	default:
		return false
	}
}

// resolvePrinter loads the requested printer, or the default when id is 0
func (s *PrinterService) resolvePrinter(printerID uint) (*models.PrinterConfig, error) {
	var printer models.PrinterConfig
	if printerID > 0 {
		if err := s.db.First(&printer, printerID).Error; err != nil {
			return nil, fmt.Errorf("printer not found: %w", err)
		}
		return &printer, nil
	}

	err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&printer).Error
	if err != nil {
		return nil, fmt.Errorf("no default printer configured")
	}
	return &printer, nil
}

// GetPrinters lists all configured printers
func (s *PrinterService) GetPrinters() ([]models.PrinterConfig, error) {
	var printers []models.PrinterConfig
	if err := s.db.Order("id").Find(&printers).Error; err != nil {
		return nil, err
	}
	return printers, nil
}

// SavePrinter creates or updates a printer configuration. Marking a
// printer default clears the flag on every other printer.
func (s *PrinterService) SavePrinter(printer *models.PrinterConfig) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if printer.IsDefault {
			if err := tx.Model(&models.PrinterConfig{}).Where("id <> ?", printer.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(printer).Error
	})
}

// DeletePrinter removes a printer configuration
func (s *PrinterService) DeletePrinter(printerID uint) error {
	return s.db.Delete(&models.PrinterConfig{}, printerID).Error
}

// profileFor maps a printer config onto an encoder profile
func (s *PrinterService) profileFor(printer *models.PrinterConfig) escpos.Profile {
	profile := escpos.DefaultProfile()

	paperWidth := printer.PaperWidth
	if paperWidth == 0 {
		paperWidth = s.cfg.Printing.PaperWidth
	}
	if paperWidth == 58 {
		profile.PaperWidth = 58
		profile.Columns = 32
	}

	if s.cfg.Printing.QRModuleSize > 0 {
		profile.QRModuleSize = byte(s.cfg.Printing.QRModuleSize)
	}
	profile.NativeQR = printer.NativeQR
	profile.PrintLogo = printer.PrintLogo
	return profile
}

func (s *PrinterService) applyEstablishmentDefaults(data *models.TicketData) {
	if data.EstablishmentName == "" {
		data.EstablishmentName = s.cfg.Establishment.Name
	}
	if data.EstablishmentURL == "" {
		data.EstablishmentURL = s.cfg.Establishment.EstablishmentURL
	}
	if data.ReviewURL == "" {
		data.ReviewURL = s.cfg.Establishment.ReviewURL
	}
}

func (s *PrinterService) recordJob(printer *models.PrinterConfig, kind, origin string, payloadSize int, jobErr error) {
	job := models.PrintJob{
		ID:          uuid.NewString(),
		PrinterID:   printer.ID,
		PrinterName: printer.Name,
		Kind:        kind,
		Origin:      origin,
		PayloadSize: payloadSize,
		Status:      "done",
	}
	if jobErr != nil {
		job.Status = "failed"
		job.Error = jobErr.Error()
	}
	if err := s.db.Create(&job).Error; err != nil {
		s.logger.LogWarning("Could not record print job", err.Error())
	}
}
