// Package crm is the in-memory client, product and order book of a computer
// hardware store, together with the figures its dashboard shows.
package crm

import (
	"errors"
	"fmt"

	"github.com/compustack/aether/pkg/model"
)

var (
	ErrUnauthorized       = errors.New("login required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
)

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientLead     ClientStatus = "lead"
	ClientInactive ClientStatus = "inactive"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderAssembling OrderStatus = "Assembling"
	OrderShipped    OrderStatus = "Shipped"
	OrderCompleted  OrderStatus = "Completed"
)

const DefaultProductCategory = "Graphics cards"

type Client struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	TotalOrders int          `json:"totalOrders"`
	Status      ClientStatus `json:"status"`
}

type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
}

type Order struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	ClientName string      `json:"clientName"`
	Items      []string    `json:"items"`
	Total      int64       `json:"total"`
	Status     OrderStatus `json:"status"`
	Date       string      `json:"date"`
}

func ParseClientStatus(value string) (ClientStatus, error) {
	switch ClientStatus(value) {
	case "":
		return ClientLead, nil
	case ClientActive, ClientLead, ClientInactive:
		return ClientStatus(value), nil
	default:
		return "", fmt.Errorf("%w: unknown client status %q", model.ErrInvalidInput, value)
	}
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	switch OrderStatus(value) {
	case "":
		return OrderPending, nil
	case OrderPending, OrderAssembling, OrderShipped, OrderCompleted:
		return OrderStatus(value), nil
	default:
		return "", fmt.Errorf("%w: unknown order status %q", model.ErrInvalidInput, value)
	}
}
