package trade

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{15}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		number := NewOrderNumber()
		assert.Regexp(t, pattern, number)
		seen[number] = struct{}{}
	}
	// collisions across 100 draws of 15 random digits would point at a
	// broken generator
	assert.Len(t, seen, 100)
}

func TestOrderValidateDelivery(t *testing.T) {
	order := &Order{DeliveryType: DeliveryCourier}
	assert.Error(t, order.ValidateDelivery())

	order.DeliveryAddress = "Lenina 1"
	assert.NoError(t, order.ValidateDelivery())

	order = &Order{DeliveryType: DeliveryPickup}
	assert.NoError(t, order.ValidateDelivery())

	order = &Order{DeliveryType: "DRONE"}
	assert.Error(t, order.ValidateDelivery())
}
