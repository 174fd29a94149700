package models

import (
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
	"github.com/shopspring/decimal"
)

const EntityCustomer = "customer"

// Customer.Udhaar is the outstanding credit the customer owes the shop.
type Customer struct {
	ID        string          `gorm:"primary_key;size:36" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Phone     string          `gorm:"size:20;index" json:"phone"`
	Email     string          `gorm:"size:100" json:"email,omitempty"`
	Udhaar    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"udhaar"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	ID     string          `json:"id" validate:"omitempty,max=36"`
	Name   string          `json:"name" validate:"required,max=100"`
	Phone  string          `json:"phone" validate:"required"`
	Email  string          `json:"email" validate:"omitempty,email,max=100"`
	Udhaar decimal.Decimal `json:"udhaar"`
}

func (c Customer) OwesCredit() bool {
	return c.Udhaar.IsPositive()
}

// Validate checks the input and rewrites Phone into E.164 for phoneRegion.
func (input *NewCustomer) Validate(phoneRegion string) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)

	fields, err := utils.ValidateStruct(input)
	if err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]string{}
	}
	if _, bad := fields["Phone"]; !bad {
		phone, err := utils.NormalizePhoneNumber(input.Phone, phoneRegion)
		if err != nil {
			fields["Phone"] = "phone"
		} else {
			input.Phone = phone
		}
	}
	if input.Udhaar.IsNegative() {
		fields["Udhaar"] = "gte"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (input *NewCustomer) Apply(c *Customer) {
	c.Name = input.Name
	c.Phone = input.Phone
	c.Email = input.Email
}
