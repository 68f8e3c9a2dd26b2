package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (r AddItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.By(func(value interface{}) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.ErrRequired
			}
			return nil
		})),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}
