package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"
)

type RosterHandler struct {
	tripService *services.TripService
	logger      *logrus.Logger
}

func NewRosterHandler(tripService *services.TripService, logger *logrus.Logger) *RosterHandler {
	return &RosterHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// GetRoster returns the trip roster with contacts and medical notes
// GET /api/v1/trips/:id/roster
func (h *RosterHandler) GetRoster(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roster, err := h.tripService.GetRoster(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ExportRosterPDF renders the trip roster as a printable PDF
// GET /api/v1/trips/:id/roster/pdf
func (h *RosterHandler) ExportRosterPDF(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roster, err := h.tripService.GetRoster(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	data, filename, err := buildRosterPDF(roster)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"riders":  len(roster.Entries),
	}).Info("Roster PDF exported")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func buildRosterPDF(roster *models.RosterView) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Roster", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRIP ROSTER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Trip      : %s", roster.Trip.Name))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Dates     : %s to %s",
		roster.Trip.StartDate.Format(models.DateLayout),
		roster.Trip.EndDate.Format(models.DateLayout)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Riders    : %d", len(roster.Entries)))
	pdf.Ln(10)

	for i, entry := range roster.Entries {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, fmt.Sprintf("%d. %s (%d seat(s))", i+1, entry.Rider.FullName(), entry.Seats))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 11)
		if entry.Rider.Phone != "" {
			pdf.Cell(0, 6, "   Phone: "+entry.Rider.Phone)
			pdf.Ln(6)
		}
		instructions := "no"
		if entry.InstructionsSent {
			instructions = "yes"
		}
		pdf.Cell(0, 6, "   Instructions sent: "+instructions)
		pdf.Ln(6)

		for _, contact := range entry.EmergencyContacts {
			line := fmt.Sprintf("   Emergency: %s %s", contact.Name, contact.Phone)
			if contact.Relationship != "" {
				line += " (" + contact.Relationship + ")"
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
		if entry.MedicalNote != nil && strings.TrimSpace(entry.MedicalNote.Notes) != "" {
			pdf.MultiCell(0, 6, "   Medical: "+entry.MedicalNote.Notes, "", "", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ROSTER_%d_%s.pdf", roster.Trip.ID, sanitizeFilenamePart(roster.Trip.Name))
	return buf.Bytes(), filename, nil
}

func sanitizeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
