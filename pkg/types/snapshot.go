package types

import "github.com/shopspring/decimal"

// OrderItemSnapshot is the immutable, denormalized record of one configured
// cart line, frozen at order placement. It carries no references to live menu
// configuration so the order stays interpretable after the menu item changes
// or disappears.
type OrderItemSnapshot struct {
	MenuItemName    string                   `json:"menu_item_name"`
	Quantity        int                      `json:"quantity"`
	UnitPrice       decimal.Decimal          `json:"unit_price"`
	TotalPrice      decimal.Decimal          `json:"total_price"`
	VariationGroups []SnapshotVariationGroup `json:"variation_groups,omitempty"`
	Addons          []SnapshotAddon          `json:"addons,omitempty"`
	CustomerRequest string                   `json:"customer_request,omitempty"`
}

// SnapshotVariationGroup records one customization axis and what was chosen.
type SnapshotVariationGroup struct {
	GroupName       string           `json:"group_name"`
	SelectedOptions []SnapshotOption `json:"selected_options"`
}

// SnapshotOption is a selected option copied by value. SubVariationGroups
// supports one level of variant-of-a-variant nesting and is empty for most
// options.
type SnapshotOption struct {
	OptionName         string                   `json:"option_name"`
	PriceAdjustment    decimal.Decimal          `json:"price_adjustment"`
	SubVariationGroups []SnapshotVariationGroup `json:"sub_variation_groups,omitempty"`
}

// SnapshotAddon is a selected add-on copied by value.
type SnapshotAddon struct {
	AddonName string          `json:"addon_name"`
	Price     decimal.Decimal `json:"price"`
}
