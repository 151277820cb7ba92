package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
	"github.com/campuswell/scheduling-api/pkg/export"
)

// ExportFormat selects the rendering of an appointment export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries rendered export bytes with delivery metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a caller's appointment list as a downloadable file.
type ExportService struct {
	appointments *AppointmentService
	logger       *zap.Logger
	now          func() time.Time
}

// NewExportService constructs the service.
func NewExportService(appointments *AppointmentService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{appointments: appointments, logger: logger, now: time.Now}
}

var exportHeaders = []string{"Date", "Time", "Status", "Student", "Counsellor", "Notes"}

// exportPageSize is the largest page the list endpoint serves.
const exportPageSize = 100

// collectAll walks the paginated list until every matching record has been
// fetched. Exports ignore the caller's pagination fields.
func (s *ExportService) collectAll(ctx context.Context, claims *models.JWTClaims, query dto.AppointmentListQuery) ([]models.Appointment, error) {
	query.Page = 1
	query.PageSize = exportPageSize

	var rows []models.Appointment
	for {
		list, err := s.appointments.List(ctx, claims, query)
		if err != nil {
			return nil, err
		}
		rows = append(rows, list.Appointments...)
		if len(list.Appointments) == 0 || len(rows) >= list.Pagination.TotalCount {
			return rows, nil
		}
		query.Page++
	}
}

// Appointments exports the caller's appointments, applying the same identity
// scoping as the list endpoint. It pages through the full filtered set so the
// file never covers less than the list reports.
func (s *ExportService) Appointments(ctx context.Context, claims *models.JWTClaims, query dto.AppointmentListQuery, format ExportFormat) (*ExportResult, error) {
	rows, err := s.collectAll(ctx, claims, query)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Appointments",
		Headers: exportHeaders,
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, appt := range rows {
		table.Rows = append(table.Rows, map[string]string{
			"Date":       appt.Date,
			"Time":       appt.Start.Display(),
			"Status":     string(appt.Status),
			"Student":    appt.StudentID,
			"Counsellor": appt.CounsellorID,
			"Notes":      appt.Notes,
		})
	}

	stamp := s.now().Format("2006-01-02")
	switch format {
	case ExportCSV:
		data, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("appointments-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportPDF:
		data, err := export.PDF(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("appointments-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
