package helper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"kriyatec.com/medstore-api/pkg/shared/config"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

// SMSGateway sends texts through an HTTP GET gateway.
type SMSGateway struct {
	BaseURL string
	Client  *http.Client
}

func NewSMSGateway(cfg config.SMS) *SMSGateway {
	return &SMSGateway{BaseURL: cfg.InvoiceURL, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (g *SMSGateway) Enabled() bool {
	return g != nil && g.BaseURL != ""
}

// SendInvoiceSMS texts the customer a link to their invoice and returns the
// gateway message id.
func (g *SMSGateway) SendInvoiceSMS(ctx context.Context, mobileNo, customerName, storeName, billNo, link string) (string, error) {
	if customerName == "" {
		customerName = "Customer"
	}
	msg := fmt.Sprintf("Dear %s, thank you for shopping at %s. Your invoice %s is available at %s", customerName, storeName, billNo, link)
	smsurl := fmt.Sprintf(g.BaseURL+"&to=%s&message=%s", url.QueryEscape(mobileNo), url.QueryEscape(msg))
	return g.send(ctx, smsurl, "invoice SMS sent for bill "+billNo)
}

func (g *SMSGateway) send(ctx context.Context, smsurl string, msg string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, smsurl, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	smsId := string(body)
	logx.Info().Str("sms_id", smsId).Msg(msg)
	return smsId, nil
}
