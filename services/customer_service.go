package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/utils"
	"go.uber.org/zap"
)

// CustomerInput carries the editable fields of a customer
type CustomerInput struct {
	Name      string
	Phone     string
	City      string
	Address   string
	OrderType string
	Status    string
}

// CustomerFilter narrows the customer list; Search looks at name, phone and
// city while the other fields match exactly
type CustomerFilter struct {
	Search    string
	Name      string
	City      string
	OrderType string
}

type CustomerSummary struct {
	Total  int `json:"total"`
	Active int `json:"active"`
	Local  int `json:"local"`
	Online int `json:"online"`
}

type CustomerListing struct {
	Customers []models.Customer `json:"customers"`
	Summary   CustomerSummary   `json:"summary"`
}

type CustomerService struct {
	repo   *repository.Repository
	log    *zap.Logger
	prefix string
	now    func() time.Time
}

func NewCustomerService(repo *repository.Repository, log *zap.Logger, idPrefix string) *CustomerService {
	if idPrefix == "" {
		idPrefix = "CUS"
	}
	return &CustomerService{repo: repo, log: log, prefix: idPrefix, now: time.Now}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	in, err := normalizeCustomerInput(in)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Customers.GetByPhone(ctx, in.Phone)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicatePhone
		}

		n, err := tx.Sequences.Next(ctx, models.SequenceCustomers)
		if err != nil {
			return fmt.Errorf("next customer id: %w", err)
		}

		customer = models.Customer{ID: FormatID(s.prefix, n), Date: s.now()}
		applyCustomerInput(&customer, in)
		return tx.Customers.Create(ctx, &customer)
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.log.Info("customer created", zap.String("customer_id", customer.ID))
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput) (*models.Customer, error) {
	in, err := normalizeCustomerInput(in)
	if err != nil {
		return nil, err
	}

	var customer *models.Customer
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		customer, err = tx.Customers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}

		if in.Phone != customer.Phone {
			existing, err := tx.Customers.GetByPhone(ctx, in.Phone)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != id {
				return ErrDuplicatePhone
			}
		}

		applyCustomerInput(customer, in)
		return tx.Customers.Update(ctx, customer)
	})
	if err != nil {
		return nil, fmt.Errorf("update customer %s: %w", id, err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	n, err := s.repo.Customers.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	s.log.Info("customer deleted", zap.String("customer_id", id))
	return nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.repo.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}
	return c, nil
}

// List returns the matching customers; the summary counts every customer
func (s *CustomerService) List(ctx context.Context, f CustomerFilter) (*CustomerListing, error) {
	all, err := s.repo.Customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Customer, 0, len(all))
	var summary CustomerSummary
	for _, c := range all {
		summary.Total++
		if c.Status == models.CustomerStatusActive {
			summary.Active++
		}
		switch c.OrderType {
		case models.OrderTypeLocal:
			summary.Local++
		case models.OrderTypeOnline:
			summary.Online++
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(c.Phone, query) &&
			!strings.Contains(strings.ToLower(c.City), query) {
			continue
		}
		if f.Name != "" && c.Name != f.Name {
			continue
		}
		if f.City != "" && c.City != f.City {
			continue
		}
		if f.OrderType != "" && c.OrderType != f.OrderType {
			continue
		}
		out = append(out, c)
	}

	return &CustomerListing{Customers: out, Summary: summary}, nil
}

func normalizeCustomerInput(in CustomerInput) (CustomerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name == "" {
		return in, invalid("name", "is required")
	}
	if !utils.IsValidMobile(in.Phone) {
		return in, invalid("phone", "must match 03XXXXXXXXX")
	}
	orderType, err := normalizeOrderType(strings.TrimSpace(in.OrderType))
	if err != nil {
		return in, err
	}
	in.OrderType = orderType

	switch strings.TrimSpace(in.Status) {
	case "":
		in.Status = models.CustomerStatusActive
	case models.CustomerStatusActive, models.CustomerStatusInactive:
		in.Status = strings.TrimSpace(in.Status)
	default:
		return in, invalid("status", "must be Active or Inactive")
	}
	return in, nil
}

func applyCustomerInput(c *models.Customer, in CustomerInput) {
	c.Name = in.Name
	c.Phone = in.Phone
	c.City = in.City
	c.Address = in.Address
	c.OrderType = in.OrderType
	c.Status = in.Status
}
