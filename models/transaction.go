package models

// Transaction is a provider-native transaction record, forwarded as-is by
// the aggregation layer.
type Transaction struct {
	// TransactionID is the provider's stable identifier for the transaction.
	TransactionID string `json:"transaction_id"`

	// AccountID ties the transaction to an Account of the same credential.
	AccountID string `json:"account_id"`

	// Name is the raw transaction description.
	Name string `json:"name"`

	// MerchantName is the cleaned merchant name, when the provider has one.
	MerchantName string `json:"merchant_name,omitempty"`

	// Amount is positive for money leaving the account, negative for money
	// entering it, following the provider's sign convention.
	Amount float64 `json:"amount"`

	// ISOCurrencyCode is the ISO-4217 currency of Amount.
	ISOCurrencyCode string `json:"iso_currency_code,omitempty"`

	// Date is the posting date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Pending reports whether the transaction has not yet posted.
	Pending bool `json:"pending"`

	// Category is the provider's category hierarchy, broadest first.
	Category []string `json:"category,omitempty"`

	// PaymentChannel is one of the provider's channel labels (online,
	// in store, other).
	PaymentChannel string `json:"payment_channel,omitempty"`
}
