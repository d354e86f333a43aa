package cartservice

import (
	"strings"
	"time"

	"github.com/ogcamping/console/internal/common"
)

func validateItem(v *common.Validator, item *CartItem) {
	v.Check(common.PermittedValue(item.Type, TypeService, TypeEquipment, TypeCombo), "type", "must be one of SERVICE, EQUIPMENT or COMBO")
	v.Check(item.Item.ID > 0, "item.id", "must be greater than zero")
	v.Check(strings.TrimSpace(item.Item.Name) != "", "item.name", "must be provided")
	v.Check(!item.Item.Price.IsNegative(), "item.price", "must not be negative")
	validateQuantity(v, item.Quantity)

	if item.RentalDays != nil {
		validateRentalDays(v, *item.RentalDays)
	}
	if item.ExtraPeople != nil {
		v.Check(*item.ExtraPeople >= 0, "extraPeople", "must not be negative")
	}

	validateDates(v, item.CheckInDate, item.CheckOutDate)
}

func validateQuantity(v *common.Validator, quantity int) {
	v.Check(quantity >= 1, "quantity", "must be at least 1")
	v.Check(quantity <= maxQuantity, "quantity", "must not be more than 1000")
}

func validateRentalDays(v *common.Validator, rentalDays int) {
	v.Check(rentalDays >= 0, "rentalDays", "must not be negative")
	v.Check(rentalDays <= 365, "rentalDays", "must not be more than 365")
}

func validateDates(v *common.Validator, checkIn, checkOut string) {
	var in, out time.Time
	var err error

	if checkIn != "" {
		in, err = time.Parse(dateLayout, checkIn)
		v.Check(err == nil, "checkInDate", "must be a date in YYYY-MM-DD format")
	}
	if checkOut != "" {
		out, err = time.Parse(dateLayout, checkOut)
		v.Check(err == nil, "checkOutDate", "must be a date in YYYY-MM-DD format")
	}
	if !in.IsZero() && !out.IsZero() {
		v.Check(!out.Before(in), "checkOutDate", "must not be before the check-in date")
	}
}

func validateClientID(v *common.Validator, clientID string) {
	v.Check(clientID != "", "client_id", "must be provided")
	v.Check(v.CheckStringLength(clientID, 1, 128), "client_id", "must not be more than 128 characters long")
}
