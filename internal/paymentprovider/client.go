// Package paymentprovider реализует HTTP-клиент платёжного провайдера:
// создание клиентов и списаний. Повторные отправки защищены ключом
// идемпотентности.
package paymentprovider

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт нового клиента провайдера.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.New().String())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateCustomer регистрирует пользователя у провайдера и возвращает его ID.
func (c *Client) CreateCustomer(reqParams CreateCustomerRequest) (*CustomerResponse, error) {
	req, err := c.newRequest("POST", "/customers", reqParams)
	if err != nil {
		return nil, err
	}

	var customerResp CustomerResponse
	if err := c.do(req, &customerResp); err != nil {
		return nil, err
	}
	return &customerResp, nil
}

// CreateCharge отправляет запрос на списание средств.
func (c *Client) CreateCharge(reqParams CreateChargeRequest) (*ChargeResponse, error) {
	req, err := c.newRequest("POST", "/charges", reqParams)
	if err != nil {
		return nil, err
	}

	var chargeResp ChargeResponse
	if err := c.do(req, &chargeResp); err != nil {
		return nil, err
	}
	return &chargeResp, nil
}
