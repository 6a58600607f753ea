package tools

import (
	"context"
	"fmt"

	"github.com/dialmate-ai/dialmate/pkg/agent/sim"
)

// Canned edge-case copy, keyed by product category or city.
var (
	bundles = map[string]string{
		"Tops":     "Pair with our Bottoms collection and get 15% off on the combo!",
		"Bottoms":  "Complete the look with our Tops and Accessories - save ₹500 on bundle!",
		"Footwear": "Add matching accessories and get free shipping!",
		"Dresses":  "Pair with our Accessories collection for a complete look - 10% off!",
	}

	sizeGuides = map[string]string{
		"Tops":     "For shirts, measure chest circumference. S(36-38), M(39-41), L(42-44), XL(45-47)",
		"Bottoms":  "For jeans, measure waist. 28-30(S), 31-33(M), 34-36(L), 37-39(XL)",
		"Footwear": "Measure foot length. UK 6-7(S), 8-9(M), 10-11(L)",
		"Dresses":  "Measure bust and waist. S(32-34), M(36-38), L(40-42)",
	}

	storeLocations = map[string]string{
		"Mumbai":    "Store at Phoenix Mall, Lower Parel. Open 10 AM - 10 PM",
		"Delhi":     "Store at Select City Walk, Saket. Open 10 AM - 10 PM",
		"Bangalore": "Store at UB City, Vittal Mallya Road. Open 10 AM - 10 PM",
	}
)

func (r *Registry) registerEdgeTools() {
	r.register(Declaration{
		Name:        "handle_out_of_stock",
		Description: "Handle out of stock with alternatives",
		Params:      []Param{reqStr("sku", "Product SKU")},
	}, "inventory_agent", r.handleOutOfStock)

	r.register(Declaration{
		Name:        "handle_payment_retry",
		Description: "Retry failed payment",
		Params: []Param{
			Param{Name: "amount", Type: "number", Description: "Amount", Required: true},
			str("method", "Payment method"),
			num("retry_count", "Retry attempt"),
		},
	}, "payment_agent", r.handlePaymentRetry)

	r.register(Declaration{
		Name:        "modify_order",
		Description: "Modify order before shipment",
		Params: []Param{
			reqStr("order_id", "Order ID"),
			str("action", "add_item, remove_item, change_address"),
		},
	}, "fulfillment_agent", r.modifyOrder)

	r.register(Declaration{
		Name:        "handle_price_objection",
		Description: "Handle customer price concerns",
		Params:      []Param{reqStr("sku", "Product SKU")},
	}, "recommendation_agent", r.handlePriceObjection)

	r.register(Declaration{
		Name:        "bundle_recommendation",
		Description: "Recommend product bundles",
		Params:      []Param{str("category", "Product category")},
	}, "recommendation_agent", r.bundleRecommendation)

	r.register(Declaration{
		Name:        "notify_back_in_stock",
		Description: "Register for stock notifications",
		Params: []Param{
			reqStr("sku", "Product SKU"),
			str("email", "Email"),
			str("phone", "Phone"),
		},
	}, "inventory_agent", r.notifyBackInStock)

	r.register(Declaration{
		Name:        "gift_wrap_service",
		Description: "Add gift wrapping",
		Params: []Param{
			reqStr("order_id", "Order ID"),
			str("message", "Gift message"),
		},
	}, "fulfillment_agent", r.giftWrapService)

	r.register(Declaration{
		Name:        "size_fit_guide",
		Description: "Provide sizing guidance",
		Params:      []Param{reqStr("sku", "Product SKU")},
	}, "recommendation_agent", r.sizeFitGuide)

	r.register(Declaration{
		Name:        "store_locator",
		Description: "Find nearest store",
		Params:      []Param{str("city", "City name")},
	}, "support_agent", r.storeLocator)
}

func (r *Registry) handleOutOfStock(_ context.Context, call Call, respond func(string)) {
	sku := call.Args.String("sku", "")

	p, ok := r.deps.Catalog.Product(sku)
	if !ok {
		respond("Product not found.")
		return
	}

	// 50/50 simulated stock-out.
	if !sim.Chance(r.deps.Rand, 1, 2) {
		respond(fmt.Sprintf("%s is in stock!", p.Name))
		return
	}

	alternatives := r.deps.Catalog.AlternativesInCategory(sku)
	if len(alternatives) == 0 {
		respond(fmt.Sprintf("%s is out of stock. We can notify you when it's back in stock. Would you like that?", p.Name))
		return
	}
	alt := alternatives[0]
	respond(fmt.Sprintf(
		"Sorry, %s is currently out of stock. However, we have %s (₹%.0f) available. Would you like to see this instead?",
		p.Name, alt.Name, alt.Price))
}

func (r *Registry) handlePaymentRetry(_ context.Context, call Call, respond func(string)) {
	amount := call.Args.Float("amount", 0)
	retryCount := call.Args.Int("retry_count", 0)

	// Hard cutoff: after two failed attempts, stop retrying and steer the
	// caller to another method.
	if retryCount >= 2 {
		respond("Payment failed multiple times. Please try a different payment method or contact your bank. You can also complete this purchase later.")
		return
	}

	if !sim.Chance(r.deps.Rand, 2, 3) {
		respond("Payment failed. This could be due to insufficient funds or network issues. Would you like to try again or use a different payment method?")
		return
	}

	orderID := fmt.Sprintf("ORD%d", sim.Between(r.deps.Rand, 10000, 99999))
	r.deps.Analytics.TrackOrder(amount)
	respond(fmt.Sprintf("Payment successful! Order ID: %s", orderID))
}

func (r *Registry) modifyOrder(_ context.Context, call Call, respond func(string)) {
	orderID := call.Args.String("order_id", "")
	action := call.Args.String("action", "")

	switch action {
	case "add_item":
		respond(fmt.Sprintf("I've added the item to order %s. Updated total will be charged to your payment method.", orderID))
	case "remove_item":
		respond(fmt.Sprintf("Item removed from order %s. Refund will be processed within 3-5 business days.", orderID))
	case "change_address":
		respond(fmt.Sprintf("Delivery address updated for order %s. New estimated delivery: 3-5 days.", orderID))
	default:
		respond(fmt.Sprintf("Order %s can be modified. What would you like to change?", orderID))
	}
}

func (r *Registry) handlePriceObjection(_ context.Context, call Call, respond func(string)) {
	sku := call.Args.String("sku", "")

	p, ok := r.deps.Catalog.Product(sku)
	if !ok {
		respond("Product not found.")
		return
	}

	responses := []string{
		fmt.Sprintf("I understand. %s is priced at ₹%.0f. We have a SAVE20 coupon that gives 20%% off on purchases above ₹2000. Would you like to add more items to qualify?", p.Name, p.Price),
		"The price reflects premium quality. However, as a valued customer, I can check if you have loyalty points to offset the cost. Let me check your account.",
		"I can show you similar items in a lower price range. What's your budget?",
	}
	respond(sim.Pick(r.deps.Rand, responses))
}

func (r *Registry) bundleRecommendation(_ context.Context, call Call, respond func(string)) {
	category := call.Args.String("category", "")
	if text, ok := bundles[category]; ok {
		respond(text)
		return
	}
	respond("Check out our combo offers for great savings!")
}

func (r *Registry) notifyBackInStock(_ context.Context, call Call, respond func(string)) {
	sku := call.Args.String("sku", "")

	p, ok := r.deps.Catalog.Product(sku)
	if !ok {
		respond("Product not found.")
		return
	}
	respond(fmt.Sprintf("You'll be notified when %s is back in stock. We'll send updates via email and SMS.", p.Name))
}

func (r *Registry) giftWrapService(_ context.Context, call Call, respond func(string)) {
	orderID := call.Args.String("order_id", "")
	respond(fmt.Sprintf("Gift wrapping added to order %s for ₹99. Your personalized message will be included. Perfect for gifting!", orderID))
}

func (r *Registry) sizeFitGuide(_ context.Context, call Call, respond func(string)) {
	sku := call.Args.String("sku", "")

	p, ok := r.deps.Catalog.Product(sku)
	if !ok {
		respond("Product not found.")
		return
	}

	guide, ok := sizeGuides[p.Category]
	if !ok {
		guide = "Check product description for size chart"
	}
	respond(fmt.Sprintf("%s sizing: %s", p.Name, guide))
}

func (r *Registry) storeLocator(_ context.Context, call Call, respond func(string)) {
	city := call.Args.String("city", "")

	info, ok := storeLocations[city]
	if !ok {
		info = "We have stores in Mumbai, Delhi, and Bangalore"
	}
	respond(fmt.Sprintf("%s. Would you like to reserve items for in-store pickup?", info))
}
