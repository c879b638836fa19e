package config

// DefaultUniverse returns the built-in crypto universe used when the config
// file does not define one.
func DefaultUniverse() []Asset {
	return []Asset{
		{Name: "Bitcoin", Ticker: "BTC-USD", Color: "#F7931A", Logo: "https://assets.coingecko.com/coins/images/1/large/bitcoin.png"},
		{Name: "Ethereum", Ticker: "ETH-USD", Color: "#3C3C3D", Logo: "https://assets.coingecko.com/coins/images/279/large/ethereum.png"},
		{Name: "BNB", Ticker: "BNB-USD", Color: "#F3BA2F", Logo: "https://assets.coingecko.com/coins/images/825/large/binance-coin-logo.png"},
		{Name: "Cardano", Ticker: "ADA-USD", Color: "#0033AD", Logo: "https://assets.coingecko.com/coins/images/975/large/cardano.png"},
		{Name: "Solana", Ticker: "SOL-USD", Color: "#00FFA3", Logo: "https://assets.coingecko.com/coins/images/4128/large/solana.png"},
		{Name: "XRP", Ticker: "XRP-USD", Color: "#25A768", Logo: "https://assets.coingecko.com/coins/images/44/large/xrp-symbol-white-128.png"},
		{Name: "Dogecoin", Ticker: "DOGE-USD", Color: "#C2A633", Logo: "https://assets.coingecko.com/coins/images/5/large/dogecoin.png"},
		{Name: "Polkadot", Ticker: "DOT-USD", Color: "#E6007A", Logo: "https://assets.coingecko.com/coins/images/12171/large/polkadot.png"},
		{Name: "Litecoin", Ticker: "LTC-USD", Color: "#BEBEBE", Logo: "https://assets.coingecko.com/coins/images/2/large/litecoin.png"},
		{Name: "Chainlink", Ticker: "LINK-USD", Color: "#2A5ADA", Logo: "https://assets.coingecko.com/coins/images/877/large/chainlink-new-logo.png"},
		{Name: "Tether", Ticker: "USDT-USD", Color: "#26A17B", Logo: "https://assets.coingecko.com/coins/images/325/large/Tether-logo.png"},
		{Name: "Pepe", Ticker: "PEPE24478-USD", Color: "#78C850", Logo: "https://assets.coingecko.com/coins/images/29850/large/pepe-token.jpeg"},
		{Name: "Shiba Inu", Ticker: "SHIB-USD", Color: "#F05A24", Logo: "https://assets.coingecko.com/coins/images/11939/large/shiba.png"},
	}
}

// DefaultCurrencies returns the built-in display currencies.
func DefaultCurrencies() map[string]Currency {
	return map[string]Currency{
		"USD": {Rate: 1, Symbol: "$"},
		"IDR": {Rate: 16000, Symbol: "Rp"},
		"EUR": {Rate: 0.92, Symbol: "€"},
	}
}
