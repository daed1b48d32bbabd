package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/cuneytcagriyilmaz/postdesk/configs"
	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
)

// CustomerDirectory is the customer-service contract the engine depends on.
// GetCustomer distinguishes "not found" (ErrCustomerNotFound) from the service
// being unreachable (ErrServiceUnavailable).
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error)
	SetDeleted(ctx context.Context, customerID int64, deleted bool) error
}

type customerDirectory struct {
	baseURL string
	client  *http.Client
}

func NewCustomerDirectory(cfg config.Config) CustomerDirectory {
	return &customerDirectory{
		baseURL: cfg.CustomerServiceURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *customerDirectory) GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error) {
	url := fmt.Sprintf("%s/api/customers/%d", d.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCustomerNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: customer service returned %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var customer models.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	return &customer, nil
}

func (d *customerDirectory) SetDeleted(ctx context.Context, customerID int64, deleted bool) error {
	action := "soft-delete"
	if !deleted {
		action = "restore"
	}
	url := fmt.Sprintf("%s/api/customers/%d/%s", d.baseURL, customerID, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrCustomerNotFound
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: customer service returned %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return nil
}

// customerDirectoryFallback wraps a directory client for callers that prefer a
// degraded answer over a failure (read-only enrichment paths). Lookup failures
// are logged and replaced with an UNKNOWN-status customer; writes are never
// swallowed.
type customerDirectoryFallback struct {
	next CustomerDirectory
}

func NewCustomerDirectoryWithFallback(next CustomerDirectory) CustomerDirectory {
	return &customerDirectoryFallback{next: next}
}

func (f *customerDirectoryFallback) GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error) {
	customer, err := f.next.GetCustomer(ctx, customerID)
	if err != nil {
		slog.Info("customer lookup fallback", "customer_id", customerID, "error", err.Error())
		return &models.Customer{ID: customerID, Status: models.CustomerStatusUnknown}, nil
	}
	return customer, nil
}

func (f *customerDirectoryFallback) SetDeleted(ctx context.Context, customerID int64, deleted bool) error {
	return f.next.SetDeleted(ctx, customerID, deleted)
}
