// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Account is a provider-native account record. The gateway passes these
// through unmodified: an aggregated response is the concatenation of each
// linked institution's accounts in the provider's own order.
type Account struct {
	// AccountID is the provider's stable identifier for the account within
	// its item. Unique per credential, not globally.
	AccountID string `json:"account_id"`

	// Name is the account display name as reported by the institution.
	Name string `json:"name"`

	// OfficialName is the institution's formal product name, when known.
	OfficialName string `json:"official_name,omitempty"`

	// Mask is the last 2-4 digits of the account number, when known.
	Mask string `json:"mask,omitempty"`

	// Type is the provider's coarse classification (depository, credit,
	// loan, investment).
	Type string `json:"type"`

	// Subtype refines Type (checking, savings, credit card, ...).
	Subtype string `json:"subtype,omitempty"`

	// Balances holds the provider-reported balance set.
	Balances AccountBalances `json:"balances"`
}

// AccountBalances mirrors the provider's balance object. Pointer fields
// distinguish "reported as zero" from "not reported".
type AccountBalances struct {
	// Available is the amount available for spending, net of holds.
	Available *float64 `json:"available"`

	// Current is the posted balance.
	Current *float64 `json:"current"`

	// Limit is the credit limit for credit-type accounts.
	Limit *float64 `json:"limit"`

	// ISOCurrencyCode is the ISO-4217 currency of the balance figures.
	ISOCurrencyCode string `json:"iso_currency_code,omitempty"`
}
