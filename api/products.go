package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	raw, err := c.getRaw(ctx, "/products/")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Product](raw, "products")
}

func (c *Client) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out models.Product
	if err := c.do(ctx, http.MethodPost, "/products/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, req models.ProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out models.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}
