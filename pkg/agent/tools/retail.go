package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dialmate-ai/dialmate/pkg/agent/catalog"
	"github.com/dialmate-ai/dialmate/pkg/agent/sim"
	"github.com/dialmate-ai/dialmate/pkg/agent/store"
)

var orderStatuses = []string{"Order placed", "Packed", "Shipped", "Out for delivery", "Delivered"}

// Coupon rules for the retail family. Minimum is the cart total required
// before the discount applies.
var coupons = map[string]struct {
	Percent int
	Minimum float64
}{
	"SAVE20":    {Percent: 20, Minimum: 2000},
	"WELCOME10": {Percent: 10, Minimum: 0},
	"FESTIVE15": {Percent: 15, Minimum: 1500},
}

func (r *Registry) registerRetailTools() {
	r.register(Declaration{
		Name:        "search_products",
		Description: "Search for products by name, category, or price range",
		Params: []Param{
			str("query", "Product name or keyword"),
			str("category", "Category like Tops, Bottoms, Footwear, Accessories"),
			num("max_price", "Maximum price in rupees"),
		},
	}, "recommendation_agent", r.searchProducts)

	r.register(Declaration{
		Name:        "get_recommendations",
		Description: "Get personalized product recommendations based on customer profile",
		Params:      []Param{str("customer_id", "Customer ID")},
	}, "recommendation_agent", r.productRecommendations)

	r.register(Declaration{
		Name:        "check_inventory",
		Description: "Check product stock availability at stores or warehouse",
		Params: []Param{
			reqStr("sku", "Product SKU code"),
			str("location", "Location: store1, warehouse, or all"),
		},
	}, "inventory_agent", r.checkInventory)

	r.register(Declaration{
		Name:        "add_to_cart",
		Description: "Add product to shopping cart",
		Params: []Param{
			str("session_id", "Session ID"),
			reqStr("sku", "Product SKU"),
			num("quantity", "Quantity"),
		},
	}, "payment_agent", r.addToCart)

	r.register(Declaration{
		Name:        "view_cart",
		Description: "View current shopping cart contents and total",
		Params:      []Param{str("session_id", "Session ID")},
	}, "payment_agent", r.viewCart)

	r.register(Declaration{
		Name:        "process_payment",
		Description: "Process payment for the order",
		Params: []Param{
			Param{Name: "amount", Type: "number", Description: "Payment amount", Required: true},
			str("method", "Payment method: card, upi, cash"),
			str("session_id", "Session ID"),
		},
	}, "payment_agent", r.processPayment)

	r.register(Declaration{
		Name:        "apply_coupon",
		Description: "Apply promotional coupon code to get discount",
		Params: []Param{
			reqStr("code", "Coupon code"),
			Param{Name: "cart_total", Type: "number", Description: "Cart total amount", Required: true},
			str("customer_tier", "Customer loyalty tier"),
		},
	}, "loyalty_agent", r.applyCoupon)

	r.register(Declaration{
		Name:        "check_loyalty_points",
		Description: "Check customer loyalty points and tier",
		Params:      []Param{str("customer_id", "Customer ID")},
	}, "loyalty_agent", r.checkLoyaltyPoints)

	r.register(Declaration{
		Name:        "schedule_delivery",
		Description: "Schedule home delivery or store pickup",
		Params: []Param{
			reqStr("order_id", "Order ID"),
			str("delivery_type", "home or pickup"),
			str("date", "Preferred date"),
		},
	}, "fulfillment_agent", r.scheduleDelivery)

	r.register(Declaration{
		Name:        "track_order",
		Description: "Track order delivery status",
		Params:      []Param{reqStr("order_id", "Order ID")},
	}, "support_agent", r.trackOrder)

	r.register(Declaration{
		Name:        "initiate_return",
		Description: "Initiate product return or exchange",
		Params: []Param{
			reqStr("order_id", "Order ID"),
			str("reason", "Return reason"),
		},
	}, "support_agent", r.initiateReturn)
}

func (r *Registry) searchProducts(_ context.Context, call Call, respond func(string)) {
	query := call.Args.String("query", "")
	category := call.Args.String("category", "")
	maxPrice := call.Args.Float("max_price", 0)

	results := r.deps.Catalog.SearchProducts(query, category, maxPrice)
	if len(results) == 0 {
		respond("No products found matching your criteria.")
		return
	}

	shown := results
	if len(shown) > 5 {
		shown = shown[:5]
	}
	lines := make([]string, len(shown))
	for i, p := range shown {
		r.deps.Analytics.TrackProductView(p.SKU)
		lines[i] = fmt.Sprintf("%s (₹%.0f) - %s", p.Name, p.Price, p.SKU)
	}
	respond(fmt.Sprintf("Found %d products: %s", len(results), strings.Join(lines, ", ")))
}

func (r *Registry) productRecommendations(_ context.Context, call Call, respond func(string)) {
	customerID := call.Args.String("customer_id", catalog.DefaultCitizenID)
	customer, _ := r.deps.Catalog.Citizen(customerID)

	// Demo heuristic: lead with in-stock items, three at most.
	var names []string
	for _, p := range r.deps.Catalog.SearchProducts("", "", 0) {
		if !p.InStock {
			continue
		}
		r.deps.Analytics.TrackProductView(p.SKU)
		names = append(names, p.Name)
		if len(names) == 3 {
			break
		}
	}
	respond(fmt.Sprintf("%s, based on your %s tier profile I recommend: %s.", customer.Name, customer.Tier, strings.Join(names, ", ")))
}

func (r *Registry) checkInventory(_ context.Context, call Call, respond func(string)) {
	sku := call.Args.String("sku", "")
	location := call.Args.String("location", "all")

	p, ok := r.deps.Catalog.Product(sku)
	if !ok {
		respond(fmt.Sprintf("Product %s not found.", sku))
		return
	}
	r.deps.Analytics.TrackProductView(sku)

	where := "across all locations"
	if location != "all" && location != "" {
		where = "at " + location
	}
	if p.InStock {
		respond(fmt.Sprintf("%s is in stock %s.", p.Name, where))
		return
	}
	respond(fmt.Sprintf("%s is currently out of stock %s. I can register you for a back-in-stock alert.", p.Name, where))
}

func (r *Registry) addToCart(ctx context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")
	sku := call.Args.String("sku", "")
	quantity := call.Args.Int("quantity", 1)

	p, ok := r.deps.Catalog.Product(sku)
	if !ok {
		respond(fmt.Sprintf("Product %s not found.", sku))
		return
	}
	if !p.InStock {
		respond(fmt.Sprintf("Sorry, %s is currently out of stock.", p.Name))
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	var (
		items []store.CartItem
		err   error
	)
	for i := 0; i < quantity; i++ {
		items, err = r.deps.Carts.Append(ctx, sessionID, store.CartItem{ServiceID: sku, Status: store.ItemDraft})
		if err != nil {
			break
		}
	}
	if err != nil {
		r.logger.Error("cart append failed", "session_id", sessionID, "sku", sku, "err", err)
		respond(FallbackMessage)
		return
	}

	r.deps.Sessions.SetCart(sessionID, items)
	r.deps.Sessions.RecordTurn(sessionID, "system", fmt.Sprintf("Added %s x%d to cart", sku, quantity))
	respond(fmt.Sprintf("Added %s to your cart.", p.Name))
}

func (r *Registry) viewCart(ctx context.Context, call Call, respond func(string)) {
	sessionID := call.Args.String("session_id", "default")

	items, err := r.deps.Carts.Items(ctx, sessionID)
	if err != nil {
		r.logger.Error("cart read failed", "session_id", sessionID, "err", err)
		respond(FallbackMessage)
		return
	}
	if len(items) == 0 {
		respond("Your cart is empty. Let me help you find something!")
		return
	}

	var total float64
	lines := make([]string, 0, len(items))
	for _, item := range items {
		name := item.ServiceID
		if p, ok := r.deps.Catalog.Product(item.ServiceID); ok {
			name = p.Name
			total += p.Price
		}
		lines = append(lines, fmt.Sprintf("%s - %s", name, item.Status))
	}
	respond(fmt.Sprintf("Your cart: %s. Total: ₹%.0f.", strings.Join(lines, ", "), total))
}

func (r *Registry) processPayment(ctx context.Context, call Call, respond func(string)) {
	amount := call.Args.Float("amount", 0)
	method := call.Args.String("method", "card")
	sessionID := call.Args.String("session_id", "default")

	// Simulated payment with a ~66% success rate. Failures invite a retry;
	// handle_payment_retry owns the bounded-retry path.
	if !sim.Chance(r.deps.Rand, 2, 3) {
		respond("Payment failed. This could be due to insufficient funds or network issues. Would you like to try again or use a different payment method?")
		return
	}

	orderID := fmt.Sprintf("ORD%d", sim.Between(r.deps.Rand, 10000, 99999))
	sess := r.deps.Sessions.GetOrCreate(sessionID)
	items, err := r.deps.Carts.Drain(ctx, sessionID)
	if err != nil {
		r.logger.Error("cart drain failed", "session_id", sessionID, "err", err)
		respond(FallbackMessage)
		return
	}
	if err := r.deps.Requests.Put(ctx, store.Request{
		ID:        orderID,
		CitizenID: sess.CitizenID,
		Items:     items,
		Status:    store.RequestSubmitted,
		CreatedAt: r.deps.now(),
	}); err != nil {
		r.logger.Error("order put failed", "order_id", orderID, "err", err)
		respond(FallbackMessage)
		return
	}

	r.deps.Sessions.SetCart(sessionID, nil)
	r.deps.Analytics.TrackOrder(amount)
	respond(fmt.Sprintf("Payment of ₹%.2f via %s successful! Order ID: %s.", amount, method, orderID))
}

func (r *Registry) applyCoupon(_ context.Context, call Call, respond func(string)) {
	code := strings.ToUpper(call.Args.String("code", ""))
	cartTotal := call.Args.Float("cart_total", 0)

	rule, ok := coupons[code]
	if !ok {
		respond(fmt.Sprintf("Coupon %s is not valid. Try SAVE20 on orders above ₹2000!", code))
		return
	}
	if cartTotal < rule.Minimum {
		respond(fmt.Sprintf("Coupon %s needs a cart total of at least ₹%.0f. Add a few more items to qualify!", code, rule.Minimum))
		return
	}

	discount := cartTotal * float64(rule.Percent) / 100
	respond(fmt.Sprintf("Coupon %s applied! You save ₹%.2f. New total: ₹%.2f.", code, discount, cartTotal-discount))
}

func (r *Registry) checkLoyaltyPoints(_ context.Context, call Call, respond func(string)) {
	customerID := call.Args.String("customer_id", catalog.DefaultCitizenID)

	customer, known := r.deps.Catalog.Citizen(customerID)
	if !known {
		respond("Customer not found.")
		return
	}

	redemption := customer.Points * 10
	respond(fmt.Sprintf(
		"%s, you have %d loyalty points (%s tier) = ₹%d value. Benefits: %s. Would you like to redeem points on this order?",
		customer.Name, customer.Points, customer.Tier, redemption, r.deps.Catalog.TierPerks(customer.Tier)))
}

func (r *Registry) scheduleDelivery(_ context.Context, call Call, respond func(string)) {
	orderID := call.Args.String("order_id", "ORD12345")
	deliveryType := call.Args.String("delivery_type", "home")
	date := call.Args.String("date", "tomorrow")

	if deliveryType == "home" {
		respond(fmt.Sprintf("Order %s scheduled for home delivery on %s. Estimated delivery: 3-5 business days.", orderID, date))
		return
	}
	respond(fmt.Sprintf("Order %s ready for store pickup on %s. We'll notify you when it's ready.", orderID, date))
}

func (r *Registry) trackOrder(ctx context.Context, call Call, respond func(string)) {
	orderID := call.Args.String("order_id", "")

	req, ok, err := r.deps.Requests.Get(ctx, orderID)
	if err != nil {
		r.logger.Error("order read failed", "order_id", orderID, "err", err)
		ok = false
	}

	status := ""
	if ok {
		status = req.Status
	} else {
		status = sim.Pick(r.deps.Rand, orderStatuses)
	}
	respond(fmt.Sprintf("Order %s status: %s.", orderID, status))
}

func (r *Registry) initiateReturn(ctx context.Context, call Call, respond func(string)) {
	orderID := call.Args.String("order_id", "")
	reason := call.Args.String("reason", "not specified")

	returnID := fmt.Sprintf("RET%d", sim.Between(r.deps.Rand, 1000, 9999))
	if err := r.deps.Requests.SetStatus(ctx, orderID, "return_initiated"); err != nil {
		r.logger.Error("order status update failed", "order_id", orderID, "err", err)
	}

	respond(fmt.Sprintf(
		"Return initiated for order %s (reason: %s). Return ID: %s. Pickup will be arranged and any refund processed within 5-7 business days.",
		orderID, reason, returnID))
}
