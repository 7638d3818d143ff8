package config

// DefaultSeed is the default mainnet P2P seed node this client connects to
// for the header-walk demo.
const DefaultSeed = "seed.bitcoin.sipa.be:8333"

// DefaultTestnetSeed is the default testnet3 seed node.
const DefaultTestnetSeed = "testnet-seed.bitcoin.jonasschnelli.ch:18333"

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.cryptos",
		Network: "main",
		P2P: P2PConfig{
			Seed:    DefaultSeed,
			Timeout: 10,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.cryptos/cryptos.log",
		},
	}
}
