package helper

import (
	"errors"
	"strings"

	cashfreeSDK "github.com/cashfree/cashfree-pg-sdk-go/implementation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

type PaymentRequest struct {
	OrderId        string
	Amount         decimal.Decimal
	CustomerId     string
	CustomerMobile string
	CustomerEmail  string
	Note           string
}

type PaymentLink struct {
	OrderId     string `json:"order_id" bson:"order_id"`
	OrderToken  string `json:"order_token" bson:"order_token"`
	OrderStatus string `json:"order_status" bson:"order_status"`
	PaymentLink string `json:"paymentlink" bson:"paymentlink"`
}

// Cashfree creates payment gateway orders in INR.
type Cashfree struct {
	cfg config.Cashfree
}

func NewCashfree(cfg config.Cashfree) *Cashfree {
	return &Cashfree{cfg: cfg}
}

func (c *Cashfree) getSession() cashfreeSDK.CFConfig {
	env := cashfreeSDK.SANDBOX
	if strings.ToUpper(c.cfg.Environment) == "PRODUCTION" {
		env = cashfreeSDK.PRODUCTION
	}
	return cashfreeSDK.CFConfig{
		Environment:  &env,
		ApiVersion:   &c.cfg.APIVersion,
		ClientId:     &c.cfg.AppID,
		ClientSecret: &c.cfg.SecretKey,
	}
}

func getHeader() cashfreeSDK.CFHeader {
	idempotencyKey := uuid.New().String()
	requestId := uuid.NewString()
	return cashfreeSDK.CFHeader{
		RequestID:      &requestId,
		IdempotencyKey: &idempotencyKey,
	}
}

func (c *Cashfree) getRequest(request PaymentRequest) cashfreeSDK.CFOrderRequest {
	orderMeta := cashfreeSDK.CFOrderMeta{
		ReturnUrl: c.cfg.ReturnURL,
		NotifyUrl: c.cfg.NotifyURL,
	}
	note := request.Note
	if note == "" {
		note = request.OrderId
	}
	return cashfreeSDK.CFOrderRequest{
		OrderId: &request.OrderId,
		// the gateway takes a float amount; the value is already rounded to paise
		OrderAmount:   request.Amount.Round(2).InexactFloat64(),
		OrderCurrency: "INR",
		CustomerDetails: cashfreeSDK.CFCustomerDetails{
			CustomerId:    request.CustomerId,
			CustomerEmail: request.CustomerEmail,
			CustomerPhone: request.CustomerMobile,
		},
		OrderNote: &note,
		OrderMeta: &orderMeta,
	}
}

func (c *Cashfree) CreatePaymentLink(request PaymentRequest) (PaymentLink, error) {
	var res PaymentLink
	if c.cfg.AppID == "" || c.cfg.SecretKey == "" {
		return res, errors.New("payment gateway not configured")
	}
	session := c.getSession()
	header := getHeader()
	cfOrder, _, cfError := cashfreeSDK.CreateOrder(&session, &header, c.getRequest(request))
	if cfError != nil {
		return res, errors.New(cfError.GetCode() + "-" + cfError.GetMessage())
	}
	res.OrderId = cfOrder.GetOrderId()
	res.OrderToken = cfOrder.GetOrderToken()
	res.OrderStatus = cfOrder.GetOrderStatus()
	res.PaymentLink = cfOrder.GetPaymentLink()
	return res, nil
}
