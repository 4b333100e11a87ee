package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates a malformed BIP39 mnemonic phrase.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrUnknownSigner indicates no authenticated identity holds the key
	// for the requested source address.
	ErrUnknownSigner = errors.New("wallet: no key material for address")

	// ErrProviderUnavailable indicates a data provider call failed or
	// returned an unexpected shape.
	ErrProviderUnavailable = errors.New("wallet: data provider unavailable")

	// ErrInsufficientFunds indicates the unspent outputs cannot cover amount and fees.
	ErrInsufficientFunds = errors.New("wallet: insufficient funds")

	// ErrBroadcastFailed indicates every broadcast provider rejected the transaction.
	ErrBroadcastFailed = errors.New("wallet: broadcast failed")

	// ErrReconciliation indicates provider data needed to reconcile a
	// transaction could not be obtained.
	ErrReconciliation = errors.New("wallet: transaction reconciliation failed")

	// ErrInvalidRequest indicates a malformed transfer request.
	ErrInvalidRequest = errors.New("wallet: invalid transaction request")

	// ErrUnsupportedScript indicates an unspent output locked by a script
	// this wallet cannot sign.
	ErrUnsupportedScript = errors.New("wallet: unsupported output script")
)
