package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MnemonicDeclined marks a session whose owner chose not to keep a phrase.
const MnemonicDeclined = "-"

// LoginParams is the key context a caller restores a session from.
type LoginParams struct {
	// PrivateKey is the WIF of the primary (possibly legacy) wallet.
	PrivateKey string
	// Mnemonic is the stored phrase, MnemonicDeclined, or empty.
	Mnemonic string
	// MnemonicKey is the WIF previously derived from Mnemonic.
	MnemonicKey string
}

// LoginResult carries the authenticated identities and sweep state.
type LoginResult struct {
	Identities *Identities
	SweepReady bool
	// GeneratedMnemonic is set when login created a new phrase. The caller
	// must store it together with the primary key.
	GeneratedMnemonic string
}

// Login authenticates a session. With no private key the wallet comes from
// the mnemonic (a new one when none is given) and is already swept. With a
// private key and a different mnemonic key both identities are loaded and
// the sweep is pending. A missing mnemonic key context or an invalid phrase
// is logged and only skips the mnemonic identity.
func Login(p LoginParams, params *chaincfg.Params, log *zap.Logger) (*LoginResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	privateKey := strings.TrimSpace(p.PrivateKey)
	mnemonic := strings.TrimSpace(p.Mnemonic)
	mnemonicKey := strings.TrimSpace(p.MnemonicKey)

	if privateKey == "" {
		return loginFromMnemonic(mnemonic, params)
	}

	primary, err := Authenticate(privateKey, params)
	if err != nil {
		return nil, err
	}

	hasMnemonic := mnemonic != "" && mnemonic != MnemonicDeclined
	if hasMnemonic && mnemonicKey == privateKey {
		primary.Origin = OriginMnemonic
		return &LoginResult{
			Identities: &Identities{Primary: primary, Mnemonic: primary},
			SweepReady: true,
		}, nil
	}

	result := &LoginResult{Identities: &Identities{Primary: primary}}
	log = log.With(zap.String("address", primary.Address))

	switch {
	case mnemonic == MnemonicDeclined:
		log.Warn("mnemonic declined, sweep not ready")
		return result, nil
	case mnemonicKey == "" && !hasMnemonic:
		log.Warn("no mnemonic key stored, sweep not ready")
		return result, nil
	case mnemonicKey == "":
		if !ValidateMnemonic(mnemonic) {
			log.Warn("mnemonic invalid, sweep not ready")
			return result, nil
		}
		mnemonicKey, err = SweepKeyFromMnemonic(mnemonic, "", params)
		if err != nil {
			log.Warn("sweep key derivation failed, sweep not ready", zap.Error(err))
			return result, nil
		}
	}

	mnemonicID, err := Authenticate(mnemonicKey, params)
	if err != nil {
		log.Warn("mnemonic key unusable, sweep not ready", zap.Error(err))
		return result, nil
	}
	mnemonicID.Origin = OriginMnemonic
	result.Identities.Mnemonic = mnemonicID
	return result, nil
}

func loginFromMnemonic(mnemonic string, params *chaincfg.Params) (*LoginResult, error) {
	result := &LoginResult{SweepReady: true}

	switch {
	case mnemonic == "":
		generated, err := GenerateMnemonic()
		if err != nil {
			return nil, err
		}
		mnemonic = generated
		result.GeneratedMnemonic = generated
	case mnemonic == MnemonicDeclined:
		return nil, fmt.Errorf("%w: no private key and mnemonic was declined", ErrInvalidMnemonic)
	case !ValidateMnemonic(mnemonic):
		return nil, ErrInvalidMnemonic
	}

	id, err := WalletFromMnemonic(mnemonic, 0, "", params)
	if err != nil {
		return nil, err
	}
	result.Identities = &Identities{Primary: id, Mnemonic: id}
	return result, nil
}

// IsSwept reports whether the session has no separate mnemonic wallet to
// migrate to.
func (ids *Identities) IsSwept() bool {
	if ids == nil || ids.Mnemonic == nil || ids.Primary == nil {
		return true
	}
	return util.SameAddress(ids.Primary.Address, ids.Mnemonic.Address)
}

// SweepTarget is the mnemonic wallet address funds should move to, or ""
// when already swept.
func (ids *Identities) SweepTarget() string {
	if ids.IsSwept() {
		return ""
	}
	return ids.Mnemonic.Address
}

// SweepRequest prices a send of the primary wallet's whole balance to the
// sweep target. The network fee is pinned in FeeOverride so BuildAndSign
// charges what was priced here.
func (e *Engine) SweepRequest(ctx context.Context, ids *Identities, feeOverride *btcutil.Amount, speed Speed) (TxRequest, error) {
	if ids.IsSwept() {
		return TxRequest{}, fmt.Errorf("%w: nothing to sweep", ErrInvalidRequest)
	}
	from := ids.Primary.Address

	unspents, err := e.fetchUnspents(ctx, from, 0)
	if err != nil {
		return TxRequest{}, err
	}
	total := TotalValue(unspents)

	quote, err := e.QuoteFees(ctx, decimal.Zero, feeOverride, speed, len(unspents))
	if err != nil {
		return TxRequest{}, err
	}
	available := total - quote.NetworkFee
	amount := available - ComputeServiceFee(e.policy, util.ToDecimal(available))
	if amount <= util.DustThreshold {
		return TxRequest{}, fmt.Errorf("%w: %s BTC does not cover the fees", ErrInsufficientFunds, util.FormatBTC(total))
	}

	networkFee := quote.NetworkFee
	return TxRequest{
		From:        from,
		To:          ids.SweepTarget(),
		Amount:      util.ToDecimal(amount),
		FeeOverride: &networkFee,
		Speed:       speed,
	}, nil
}
