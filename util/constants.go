package util

const (
	ConfigDir  = ".btc-wallet"
	ConfigFile = "config.json"
	EnvPrefix  = "BTC_WALLET"

	// Bitcore-style explorer: unspents, balance, tx detail, coins, broadcast.
	DEFAULT_COARSE_API_URL         = "https://api.bitcore.io/api/BTC/mainnet"
	DEFAULT_COARSE_TESTNET_API_URL = "https://api.bitcore.io/api/BTC/testnet"

	// Blockcypher-style explorer: full address history, raw tx hex, push.
	DEFAULT_RICH_API_URL         = "https://api.blockcypher.com/v1/btc/main"
	DEFAULT_RICH_TESTNET_API_URL = "https://api.blockcypher.com/v1/btc/test3"

	DEFAULT_FEE_API_URL         = "https://mempool.space/api"
	DEFAULT_FEE_TESTNET_API_URL = "https://mempool.space/testnet/api"

	DEFAULT_EXPLORER_URL         = "https://mempool.space/tx/%s"
	DEFAULT_EXPLORER_TESTNET_URL = "https://mempool.space/testnet/tx/%s"
)
