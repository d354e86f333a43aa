package cartservice

import (
	"github.com/ogcamping/console/internal/common"
	"github.com/shopspring/decimal"
)

type ItemType string

const (
	TypeService   ItemType = "SERVICE"
	TypeEquipment ItemType = "EQUIPMENT"
	TypeCombo     ItemType = "COMBO"

	maxLines    = 50
	maxQuantity = 1000
	dateLayout  = "2006-01-02"
)

// Item is the catalog entry a line refers to. The unit price is taken as
// sent by the client.
type Item struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CartItem struct {
	ID           string          `json:"id"`
	Type         ItemType        `json:"type"`
	Item         Item            `json:"item"`
	Quantity     int             `json:"quantity"`
	RentalDays   *int            `json:"rentalDays,omitempty"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	CheckInDate  string          `json:"checkInDate,omitempty"`
	CheckOutDate string          `json:"checkOutDate,omitempty"`
	ExtraPeople  *int            `json:"extraPeople,omitempty"`
}

// Cart is the list persisted under the "cart" key of a client.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Summary is the cart with its derived totals.
type Summary struct {
	Items []CartItem      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ItemPatch changes the quantity or rental days of one line.
type ItemPatch struct {
	Quantity   *int `json:"quantity"`
	RentalDays *int `json:"rentalDays"`
}

type CartService struct {
	store *common.LocalStore
}
