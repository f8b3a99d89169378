package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature, in the form
// "t=<unix>,v1=<hex hmac-sha256 of "<unix>.<body>">".
const SignatureHeader = "Payment-Signature"

// EventCheckoutCompleted is the only event type the storefront acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// DefaultTolerance bounds the age of a signed timestamp.
const DefaultTolerance = 5 * time.Minute

var ErrInvalidSignature = errors.New("webhook signature verification failed")

type Event struct {
	ID      string
	Type    string
	Session CheckoutSession
}

type CheckoutSession struct {
	ID              string            `json:"id"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata"`
	ShippingDetails *ShippingDetails  `json:"shipping_details"`
}

type ShippingDetails struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies the payload signature against the shared secret
// and parses the event. Any verification failure rejects the whole payload.
func ConstructEvent(payload []byte, sigHeader, secret string) (Event, error) {
	if err := verify(payload, sigHeader, secret, time.Now()); err != nil {
		return Event{}, err
	}

	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, fmt.Errorf("parse webhook payload: %w", err)
	}
	return Event{ID: env.ID, Type: env.Type, Session: env.Data.Object}, nil
}

func verify(payload []byte, sigHeader, secret string, now time.Time) error {
	ts, sig, err := parseSigHeader(sigHeader)
	if err != nil {
		return err
	}

	at := time.Unix(ts, 0)
	if now.Sub(at) > DefaultTolerance || at.Sub(now) > DefaultTolerance {
		return ErrInvalidSignature
	}

	expected := computeSignature(payload, secret, ts)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	return nil
}

func parseSigHeader(header string) (ts int64, sig string, err error) {
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err = strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, "", ErrInvalidSignature
			}
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return 0, "", ErrInvalidSignature
	}
	return ts, sig, nil
}

func computeSignature(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign produces a valid signature header for payload. Used by tests and
// local webhook replay tooling.
func Sign(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, computeSignature(payload, secret, ts))
}
