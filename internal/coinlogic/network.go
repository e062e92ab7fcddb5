package coinlogic

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
)

// ParamsForNetwork maps a configured network name to its chain parameters.
func ParamsForNetwork(name string) (*chaincfg.Params, error) {
	switch name {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, errors.Errorf("unknown network %q", name)
	}
}
