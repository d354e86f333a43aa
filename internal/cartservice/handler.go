package cartservice

import (
	"context"

	"github.com/ogcamping/console/internal/common"
)

const cartKey = "cart"

func NewCartService(store *common.LocalStore) *CartService {
	return &CartService{store: store}
}

func (s *CartService) load(ctx context.Context, clientID string) (*Cart, error) {
	var cart Cart
	if _, err := s.store.Get(ctx, common.LocalKey(clientID, cartKey), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) save(ctx context.Context, clientID string, cart *Cart) error {
	return s.store.Set(ctx, common.LocalKey(clientID, cartKey), cart)
}

func checkClient(clientID string) error {
	v := common.NewValidator()
	validateClientID(v, clientID)
	if !v.Valid() {
		return v.ValidationError()
	}
	return nil
}

func (s *CartService) GetCart(ctx context.Context, clientID string) (*Summary, error) {
	if err := checkClient(clientID); err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := cart.Summary()
	return &summary, nil
}

// AddItem adds a line to the cart of clientID, merging it with an identical one.
func (s *CartService) AddItem(ctx context.Context, clientID string, item CartItem) (*Summary, error) {
	v := common.NewValidator()
	validateClientID(v, clientID)
	validateItem(v, &item)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].sameLine(&item) {
			merged = true
			validateQuantity(v, cart.Items[i].Quantity+item.Quantity)
			break
		}
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}
	if !merged && len(cart.Items) >= maxLines {
		v.AddError("items", "cart must not have more than 50 lines")
		return nil, v.ValidationError()
	}

	cart.Add(item)

	if err := s.save(ctx, clientID, cart); err != nil {
		return nil, err
	}

	summary := cart.Summary()
	return &summary, nil
}

func (s *CartService) UpdateItem(ctx context.Context, clientID, id string, patch ItemPatch) (*Summary, error) {
	v := common.NewValidator()
	validateClientID(v, clientID)
	v.Check(patch.Quantity != nil || patch.RentalDays != nil, "quantity", "quantity or rentalDays must be provided")
	if patch.Quantity != nil {
		validateQuantity(v, *patch.Quantity)
	}
	if patch.RentalDays != nil {
		validateRentalDays(v, *patch.RentalDays)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if patch.Quantity != nil {
		if err := cart.UpdateQuantity(id, *patch.Quantity); err != nil {
			return nil, err
		}
	}
	if patch.RentalDays != nil {
		if err := cart.UpdateRentalDays(id, *patch.RentalDays); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, clientID, cart); err != nil {
		return nil, err
	}

	summary := cart.Summary()
	return &summary, nil
}

func (s *CartService) RemoveItem(ctx context.Context, clientID, id string) (*Summary, error) {
	if err := checkClient(clientID); err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := cart.Remove(id); err != nil {
		return nil, err
	}

	if err := s.save(ctx, clientID, cart); err != nil {
		return nil, err
	}

	summary := cart.Summary()
	return &summary, nil
}

func (s *CartService) ClearCart(ctx context.Context, clientID string) error {
	if err := checkClient(clientID); err != nil {
		return err
	}
	return s.store.Delete(ctx, common.LocalKey(clientID, cartKey))
}
