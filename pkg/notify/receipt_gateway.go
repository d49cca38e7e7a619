package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Receipt carries everything a payment receipt needs. RunningTotal is the
// rider's collected total on the trip including this payment.
type Receipt struct {
	RiderID      int64     `json:"rider_id"`
	RiderName    string    `json:"rider_name"`
	Email        string    `json:"email"`
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	RunningTotal float64   `json:"running_total"`
	Reference    string    `json:"reference"`
}

// ReceiptSender dispatches payment receipts. Implementations may fail
// independently of ledger state; callers treat failures as non-fatal.
type ReceiptSender interface {
	SendReceipt(receipt Receipt) error
}

// Config holds configuration for the receipt gateway
type Config struct {
	Mode      string // "dev" logs receipts instead of sending them
	APIURL    string
	APIKey    string
	FromName  string
	FromEmail string
	CC        string
}

// Gateway sends receipts through a transactional-mail HTTP API
type Gateway struct {
	mode      string
	apiURL    string
	apiKey    string
	fromName  string
	fromEmail string
	cc        string
	client    *http.Client
	logger    *logrus.Logger
}

// NewGateway creates a new receipt gateway
func NewGateway(cfg Config, logger *logrus.Logger) *Gateway {
	return &Gateway{
		mode:      cfg.Mode,
		apiURL:    cfg.APIURL,
		apiKey:    cfg.APIKey,
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
		cc:        cfg.CC,
		logger:    logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sendMailRequest is the mail API request structure
type sendMailRequest struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	To        string `json:"to"`
	CC        string `json:"cc,omitempty"`
	Subject   string `json:"subject"`
	TextBody  string `json:"text_body"`
	Reference string `json:"reference"`
}

// sendMailResponse is the mail API response structure
type sendMailResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	ErrCode   string `json:"err_code"`
	Comment   string `json:"comment"`
}

// SendReceipt delivers a payment receipt to the rider. In dev mode the
// receipt is logged instead of sent.
func (g *Gateway) SendReceipt(receipt Receipt) error {
	if receipt.Reference == "" {
		receipt.Reference = uuid.New().String()
	}

	if g.mode != "production" {
		g.logger.WithFields(logrus.Fields{
			"rider_id":      receipt.RiderID,
			"email":         receipt.Email,
			"amount":        receipt.Amount,
			"running_total": receipt.RunningTotal,
			"reference":     receipt.Reference,
		}).Info("DEV MODE: receipt not sent")
		return nil
	}

	if receipt.Email == "" {
		return fmt.Errorf("rider %d has no email address on file", receipt.RiderID)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your payment of %.2f on %s.\nYour total collected so far is %.2f.\n\nThank you!\n\nReceipt reference: %s\n",
		receipt.RiderName, receipt.Amount, receipt.Date.Format("2006-01-02"),
		receipt.RunningTotal, receipt.Reference,
	)

	reqBody := sendMailRequest{
		FromName:  g.fromName,
		FromEmail: g.fromEmail,
		To:        receipt.Email,
		CC:        g.cc,
		Subject:   fmt.Sprintf("Payment receipt: %.2f received", receipt.Amount),
		TextBody:  body,
		Reference: receipt.Reference,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.apiURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build receipt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("receipt request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read receipt response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var mailResp sendMailResponse
	if err := json.Unmarshal(respBody, &mailResp); err != nil {
		return fmt.Errorf("failed to parse receipt response: %w", err)
	}
	if mailResp.Status != "" && mailResp.Status != "success" {
		return fmt.Errorf("mail API rejected receipt: %s (%s)", mailResp.Comment, mailResp.ErrCode)
	}

	g.logger.WithFields(logrus.Fields{
		"rider_id":   receipt.RiderID,
		"message_id": mailResp.MessageID,
		"reference":  receipt.Reference,
	}).Info("Receipt sent")
	return nil
}
