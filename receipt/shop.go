// Package receipt renders an invoice as an ESC/POS command stream and as a
// printable HTML page. The two renderers are independent.
package receipt

// Shop is the identity printed at the top of every receipt.
type Shop struct {
	Name    string `mapstructure:"SHOP_NAME"`
	Address string `mapstructure:"SHOP_ADDRESS"`
	Phone   string `mapstructure:"SHOP_PHONE"`
}

var DefaultShop = Shop{
	Name:    "QUÁN BI-A TUẤN ANH",
	Address: "123 Đường ABC, Quận XYZ",
	Phone:   "0123.456.789",
}

func (s Shop) orDefault() Shop {
	if s.Name == "" {
		s.Name = DefaultShop.Name
	}
	if s.Address == "" {
		s.Address = DefaultShop.Address
	}
	if s.Phone == "" {
		s.Phone = DefaultShop.Phone
	}
	return s
}
