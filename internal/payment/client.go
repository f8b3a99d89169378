// Package payment adapts the hosted payment processor: outbound checkout
// session creation and inbound signed completion webhooks.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Line struct {
	Name            string
	Description     string
	Images          []string
	UnitAmountCents int64
	Quantity        int
}

type SessionParams struct {
	Currency                 string
	Lines                    []Line
	SuccessURL               string
	CancelURL                string
	Metadata                 map[string]string
	AllowedShippingCountries []string
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Client struct {
	log     *slog.Logger
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession opens a hosted payment session and returns its
// redirect URL. Metadata is echoed back verbatim on the completion webhook.
func (c *Client) CreateCheckoutSession(ctx context.Context, p SessionParams) (Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)

	for i, line := range p.Lines {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", p.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(line.UnitAmountCents, 10))
		form.Set(prefix+"[price_data][product_data][name]", line.Name)
		if line.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", line.Description)
		}
		for j, img := range line.Images {
			form.Set(fmt.Sprintf("%s[price_data][product_data][images][%d]", prefix, j), img)
		}
		form.Set(prefix+"[quantity]", strconv.Itoa(line.Quantity))
	}

	for k, v := range p.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
	for i, country := range p.AllowedShippingCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Session{}, fmt.Errorf("read session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("payment session creation rejected", "status", resp.StatusCode, "body", string(body))
		return Session{}, fmt.Errorf("payment API returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return Session{}, fmt.Errorf("decode session response: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return Session{}, fmt.Errorf("payment API returned incomplete session")
	}
	return session, nil
}
