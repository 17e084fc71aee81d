package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeService creates payment intents against the Stripe REST API. The
// client secret it returns is consumed by the frontend to complete the card
// payment; this server never captures funds itself.
type StripeService struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewStripeService(secretKey, baseURL string) *StripeService {
	return &StripeService{
		secretKey: secretKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentIntent requests a card-only payment intent for the given
// amount in the smallest currency unit, fixed to USD.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountInCents, 10))
	form.Set("currency", "usd")
	form.Add("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp stripeErrorResponse
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", errors.New(errResp.Error.Message)
		}
		return "", errors.New("Stripe error: " + resp.Status)
	}

	var result struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.ClientSecret, nil
}
