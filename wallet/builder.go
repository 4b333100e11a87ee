package wallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/bitcoinrtx/MultiCurrencyWallet/provider"
	"github.com/bitcoinrtx/MultiCurrencyWallet/util"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txauthor"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	txVersion = 2
	// Opt-in replace-by-fee (BIP125).
	rbfSequence = wire.MaxTxInSequenceNum - 2
)

// TxRequest asks to move Amount BTC from From to To.
type TxRequest struct {
	From   string
	To     string
	Amount decimal.Decimal
	// FeeOverride replaces the estimated network fee when set.
	FeeOverride *btcutil.Amount
	Speed       Speed
}

// OutputKind tells the outputs of a built transaction apart.
type OutputKind string

const (
	OutputDestination OutputKind = "destination"
	OutputChange      OutputKind = "change"
	OutputServiceFee  OutputKind = "service-fee"
)

// TxOutput is one output of a built transaction.
type TxOutput struct {
	Kind    OutputKind     `json:"kind"`
	Address string         `json:"address"`
	Value   btcutil.Amount `json:"value"`
}

// SignedTx is a fully signed transaction ready to broadcast once.
type SignedTx struct {
	Hex     string         `json:"hex"`
	TxID    string         `json:"txid"`
	Inputs  []Unspent      `json:"inputs"`
	Outputs []TxOutput     `json:"outputs"`
	Fees    FeeQuote       `json:"fees"`
	Change  btcutil.Amount `json:"change"`
}

// BuildAndSign spends every unspent output of req.From. Outputs are the
// destination, then change above the dust threshold back to req.From, then
// the service fee. Change at or below the threshold goes to miners.
func (e *Engine) BuildAndSign(ctx context.Context, ids *Identities, req TxRequest) (*SignedTx, error) {
	wif, err := ids.ResolvePrivateKey(req.From)
	if err != nil {
		return nil, err
	}

	if req.Amount.GreaterThan(util.MaxAmount) {
		return nil, fmt.Errorf("%w: amount exceeds %s BTC", ErrInvalidRequest, util.MaxAmount)
	}
	fundValue := util.ToSubunits(req.Amount)
	if fundValue <= 0 {
		return nil, fmt.Errorf("%w: amount must be at least 1 satoshi", ErrInvalidRequest)
	}
	destScript, err := util.PayToAddress(req.To, e.params)
	if err != nil {
		return nil, fmt.Errorf("%w: destination: %v", ErrInvalidRequest, err)
	}
	changeScript, err := util.PayToAddress(req.From, e.params)
	if err != nil {
		return nil, fmt.Errorf("%w: source: %v", ErrInvalidRequest, err)
	}
	if req.FeeOverride != nil && *req.FeeOverride < 0 {
		return nil, fmt.Errorf("%w: negative fee", ErrInvalidRequest)
	}

	// Always fresh: a cached set may hold outputs spent by the last send
	unspents, err := e.fetchUnspents(ctx, req.From, 0)
	if err != nil {
		return nil, err
	}

	fees, err := e.QuoteFees(ctx, req.Amount, req.FeeOverride, req.Speed, len(unspents))
	if err != nil {
		return nil, err
	}

	total := TotalValue(unspents)
	change := total - fundValue - fees.Total()
	if change < 0 {
		return nil, fmt.Errorf("%w: have %s BTC, need %s BTC", ErrInsufficientFunds,
			util.FormatBTC(total), util.FormatBTC(fundValue+fees.Total()))
	}

	outputs := []TxOutput{{Kind: OutputDestination, Address: req.To, Value: fundValue}}
	txOuts := []*wire.TxOut{wire.NewTxOut(int64(fundValue), destScript)}
	if change > util.DustThreshold {
		outputs = append(outputs, TxOutput{Kind: OutputChange, Address: req.From, Value: change})
		txOuts = append(txOuts, wire.NewTxOut(int64(change), changeScript))
	}
	if fees.ServiceFee > 0 {
		feeScript, err := util.PayToAddress(e.policy.Address, e.params)
		if err != nil {
			return nil, fmt.Errorf("%w: service fee address: %v", ErrInvalidRequest, err)
		}
		outputs = append(outputs, TxOutput{Kind: OutputServiceFee, Address: e.policy.Address, Value: fees.ServiceFee})
		txOuts = append(txOuts, wire.NewTxOut(int64(fees.ServiceFee), feeScript))
	}

	if err := checkOutputSum(txOuts, total, fees.NetworkFee, change); err != nil {
		return nil, err
	}

	msgTx, err := e.signAll(ctx, wif, changeScript, unspents, txOuts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := msgTx.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("wallet: serializing transaction: %w", err)
	}

	signed := &SignedTx{
		Hex:     hex.EncodeToString(buf.Bytes()),
		TxID:    msgTx.TxHash().String(),
		Inputs:  unspents,
		Outputs: outputs,
		Fees:    fees,
		Change:  change,
	}
	e.log.Debug("transaction built",
		zap.String("txid", signed.TxID),
		zap.Int("inputs", len(unspents)),
		zap.Int64("total_in", int64(total)),
		zap.Int64("change", int64(change)))
	return signed, nil
}

// checkOutputSum holds the outputs to total less the network fee, and less
// change when it was dust and left to miners.
func checkOutputSum(txOuts []*wire.TxOut, total, networkFee, change btcutil.Amount) error {
	want := total - networkFee
	if change <= util.DustThreshold {
		want -= change
	}
	if got := txauthor.SumOutputValues(txOuts); got != want {
		return fmt.Errorf("wallet: outputs sum to %d, want %d", got, want)
	}
	return nil
}

// signAll creates a PSBT over every unspent, attaches each previous
// transaction, signs with SIGHASH_ALL and finalizes.
func (e *Engine) signAll(ctx context.Context, wif *btcutil.WIF, ownScript []byte, unspents []Unspent, txOuts []*wire.TxOut) (*wire.MsgTx, error) {
	outPoints := make([]*wire.OutPoint, len(unspents))
	sequences := make([]uint32, len(unspents))
	for i, u := range unspents {
		hash, err := chainhash.NewHashFromStr(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad txid %q", ErrProviderUnavailable, u.TxID)
		}
		outPoints[i] = wire.NewOutPoint(hash, u.Vout)
		sequences[i] = rbfSequence
	}

	packet, err := psbt.New(outPoints, txOuts, txVersion, 0, sequences)
	if err != nil {
		return nil, fmt.Errorf("wallet: creating psbt: %w", err)
	}

	prevOuts := make([]*wire.TxOut, len(unspents))
	for i, u := range unspents {
		prevTx, err := e.FetchRawTx(ctx, u.TxID)
		if err != nil {
			return nil, err
		}
		if int(u.Vout) >= len(prevTx.TxOut) {
			return nil, fmt.Errorf("%w: %s has no output %d", ErrProviderUnavailable, u.TxID, u.Vout)
		}
		prevOut := prevTx.TxOut[u.Vout]
		if prevOut.Value != int64(u.Value) {
			return nil, fmt.Errorf("%w: %s:%d value %d, unspent says %d",
				ErrProviderUnavailable, u.TxID, u.Vout, prevOut.Value, u.Value)
		}
		if !bytes.Equal(prevOut.PkScript, ownScript) {
			return nil, fmt.Errorf("%w: %s:%d is not a P2PKH output of the signing key",
				ErrUnsupportedScript, u.TxID, u.Vout)
		}
		packet.Inputs[i].NonWitnessUtxo = prevTx
		packet.Inputs[i].SighashType = txscript.SigHashAll
		prevOuts[i] = prevOut
	}

	pubKey := wif.SerializePubKey()
	for i := range packet.Inputs {
		sig, err := txscript.RawTxInSignature(packet.UnsignedTx, i, prevOuts[i].PkScript, txscript.SigHashAll, wif.PrivKey)
		if err != nil {
			return nil, fmt.Errorf("wallet: signing input %d: %w", i, err)
		}
		packet.Inputs[i].PartialSigs = append(packet.Inputs[i].PartialSigs, &psbt.PartialSig{
			PubKey:    pubKey,
			Signature: sig,
		})
		if err := psbt.Finalize(packet, i); err != nil {
			return nil, fmt.Errorf("wallet: finalizing input %d: %w", i, err)
		}
	}

	msgTx, err := psbt.Extract(packet)
	if err != nil {
		return nil, fmt.Errorf("wallet: extracting transaction: %w", err)
	}
	return msgTx, nil
}

// FetchRawTx downloads and decodes a transaction from the rich provider,
// checking that it hashes to txid.
func (e *Engine) FetchRawTx(ctx context.Context, txid string) (*wire.MsgTx, error) {
	var resp struct {
		Hex string `json:"hex"`
	}
	path := fmt.Sprintf("/txs/%s?includeHex=true", url.PathEscape(txid))
	opts := provider.Options{CheckStatus: provider.HasField("hex"), CacheTTL: e.cacheTTL}
	if err := e.rich.Get(ctx, path, opts, &resp); err != nil {
		return nil, unavailable(e.rich, err)
	}

	raw, err := hex.DecodeString(resp.Hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bad hex for %s", ErrProviderUnavailable, e.rich.Name(), txid)
	}
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding %s: %v", ErrProviderUnavailable, e.rich.Name(), txid, err)
	}
	if got := tx.TxHash().String(); got != txid {
		return nil, fmt.Errorf("%w: %s: asked for %s, got %s", ErrProviderUnavailable, e.rich.Name(), txid, got)
	}
	return &tx, nil
}
