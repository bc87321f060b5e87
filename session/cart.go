package session

import (
	"sort"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/shopspring/decimal"
)

// Cart holds product quantities for one "add products" interaction.
type Cart struct {
	qty map[uint]int
}

func NewCart() *Cart {
	return &Cart{qty: map[uint]int{}}
}

func (c *Cart) Add(productID uint) {
	c.qty[productID]++
}

// Remove drops one unit; the product leaves the cart at zero.
func (c *Cart) Remove(productID uint) {
	if c.qty[productID] > 1 {
		c.qty[productID]--
		return
	}
	delete(c.qty, productID)
}

func (c *Cart) Quantity(productID uint) int {
	return c.qty[productID]
}

func (c *Cart) Empty() bool {
	return len(c.qty) == 0
}

func (c *Cart) Clear() {
	c.qty = map[uint]int{}
}

// Items lists the cart ordered by product id.
func (c *Cart) Items() []models.AddOrderItem {
	items := make([]models.AddOrderItem, 0, len(c.qty))
	for id, q := range c.qty {
		items = append(items, models.AddOrderItem{ProductID: id, Quantity: q})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// Total prices the cart against a product list; unknown ids count as zero.
func (c *Cart) Total(products []models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		if q := c.qty[p.ID]; q > 0 {
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(q))))
		}
	}
	return total
}
