package cartservice

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("cart item not found")

func days(rentalDays *int) int64 {
	if rentalDays == nil || *rentalDays < 1 {
		return 1
	}
	return int64(*rentalDays)
}

// recompute sets TotalPrice to quantity × unit price × max(rentalDays, 1).
func (ci *CartItem) recompute() {
	ci.TotalPrice = ci.Item.Price.
		Mul(decimal.NewFromInt(int64(ci.Quantity))).
		Mul(decimal.NewFromInt(days(ci.RentalDays)))
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// sameLine reports whether two lines book the same thing and can be merged.
func (ci *CartItem) sameLine(o *CartItem) bool {
	return ci.Type == o.Type &&
		ci.Item.ID == o.Item.ID &&
		ci.Item.Price.Equal(o.Item.Price) &&
		days(ci.RentalDays) == days(o.RentalDays) &&
		ci.CheckInDate == o.CheckInDate &&
		ci.CheckOutDate == o.CheckOutDate &&
		intValue(ci.ExtraPeople) == intValue(o.ExtraPeople)
}

// Add appends item, or adds its quantity to an identical line.
func (c *Cart) Add(item CartItem) CartItem {
	for i := range c.Items {
		if c.Items[i].sameLine(&item) {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].recompute()
			return c.Items[i]
		}
	}

	item.ID = uuid.NewString()
	item.recompute()
	c.Items = append(c.Items, item)

	return item
}

func (c *Cart) find(id string) (*CartItem, error) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

func (c *Cart) UpdateQuantity(id string, quantity int) error {
	item, err := c.find(id)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	item.recompute()
	return nil
}

func (c *Cart) UpdateRentalDays(id string, rentalDays int) error {
	item, err := c.find(id)
	if err != nil {
		return err
	}
	item.RentalDays = &rentalDays
	item.recompute()
	return nil
}

func (c *Cart) Remove(id string) error {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

func (c *Cart) Summary() Summary {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return Summary{Items: items, Count: c.Count(), Total: c.Total()}
}
