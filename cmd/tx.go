package cmd

import (
	"bytes"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/TopiaNetwork/ethtx/codec"
	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrt "github.com/TopiaNetwork/ethtx/crypt"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	tplog "github.com/TopiaNetwork/ethtx/log"
	tplogcmm "github.com/TopiaNetwork/ethtx/log/common"
	"github.com/TopiaNetwork/ethtx/transaction"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

const (
	txFuncName = "tx"
	txCmdDes   = "Operate on transactions: decode, sign, verify and keygen."
)

// txCmdOptions are the flags shared by every tx subcommand.
type txCmdOptions struct {
	configFile string
	chain      string
	chainID    uint64
	hardfork   string
	eips       []uint
	logLevel   string
	logFormat  string
}

func (o *txCmdOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configFile, "config", "", "", "configuration file, JSON")
	flags.StringVarP(&o.chain, "chain", "", "", "chain name: mainnet, ropsten, rinkeby, goerli or kovan")
	flags.Uint64VarP(&o.chainID, "chain-id", "", 0, "chain id of a custom chain")
	flags.StringVarP(&o.hardfork, "hardfork", "", "", "active hardfork: "+hardforkNames())
	flags.UintSliceVarP(&o.eips, "eips", "", nil, "EIPs to activate ahead of their hardfork")
	flags.StringVarP(&o.logLevel, "log-level", "", "", "log level: trace, debug, info, warn or error")
	flags.StringVarP(&o.logFormat, "log-format", "", "", "log format: text or json")
}

func hardforkNames() string {
	hardforks := configuration.Hardforks()
	names := make([]string, len(hardforks))
	for i, h := range hardforks {
		names[i] = string(h)
	}
	return strings.Join(names, ", ")
}

// configuration merges the config file and the flags, flags winning.
func (o *txCmdOptions) configuration() (*configuration.Configuration, error) {
	cfg := configuration.DefConfiguration()
	if o.configFile != "" {
		if err := cfg.Load(o.configFile); err != nil {
			return nil, fmt.Errorf("load configuration %s: %v", o.configFile, err)
		}
	}

	chainCfg := *cfg.Chain
	switch {
	case o.chain != "":
		chainCfg.Chain = o.chain
		chainCfg.ChainID = o.chainID
	case o.chainID != 0:
		chainCfg.Chain = ""
		chainCfg.ChainID = o.chainID
	}
	if o.hardfork != "" {
		chainCfg.Hardfork = o.hardfork
	}
	chainCfg.EIPs = append(append([]uint{}, chainCfg.EIPs...), o.eips...)
	cfg.Chain = &chainCfg

	logCfg := *cfg.Log
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	if o.logFormat != "" {
		logCfg.Format = o.logFormat
	}
	cfg.Log = &logCfg

	return cfg, nil
}

func (o *txCmdOptions) setup(cmd *cobra.Command) (*configuration.ChainProfile, tplog.Logger, error) {
	cfg, err := o.configuration()
	if err != nil {
		return nil, nil, err
	}

	level, err := tplogcmm.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := tplog.ParseLogFormat(cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	log, err := tplog.CreateWriterLogger(level, format, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	profile, err := cfg.ChainProfile()
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("chain profile %s", profile.String())

	return profile, tplog.CreateModuleLogger(level, "ethtx", log), nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := codec.CreateEncoder(codec.CodecType_JSON, cmd.OutOrStdout())
	if indenter, ok := enc.(codec.Indenter); ok {
		indenter.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// readArg returns arg, or the content of the file it names when prefixed with @.
func readArg(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "@") {
		return os.ReadFile(strings.TrimPrefix(arg, "@"))
	}
	return []byte(arg), nil
}

func parseHexArg(name, arg string) ([]byte, error) {
	input, err := readArg(arg)
	if err != nil {
		return nil, err
	}
	b, err := tpcmm.ParseHexBytes(strings.TrimSpace(string(input)))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return b, nil
}

type decodedTx struct {
	*txbasic.JsonTx
	Hash        string   `json:"hash,omitempty"`
	Sender      string   `json:"sender,omitempty"`
	BaseFee     string   `json:"baseFee"`
	UpfrontCost string   `json:"upfrontCost"`
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors,omitempty"`
}

func describeTx(tx txbasic.Transaction) *decodedTx {
	out := &decodedTx{
		JsonTx:      tx.ToJSON(),
		BaseFee:     hexutil.EncodeBig(tx.BaseFee()),
		UpfrontCost: hexutil.EncodeBig(tx.UpfrontCost()),
		Errors:      tx.ValidationErrors(),
	}
	out.Valid = len(out.Errors) == 0

	if tx.IsSigned() {
		if hash, err := tx.Hash(); err == nil {
			out.Hash = hexutil.Encode(hash)
		}
		if sender, err := tx.SenderAddress(); err == nil {
			out.Sender = sender.Hex()
		}
	}

	return out
}

func decodeCmd(opts *txCmdOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex|@file>",
		Short: "Decodes a serialized transaction.",
		Long:  `Decodes a serialized legacy or typed transaction and prints its fields, hash and sender.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parsing of the command line is done so silence cmd usage
			cmd.SilenceUsage = true

			profile, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			serialized, err := parseHexArg("transaction", args[0])
			if err != nil {
				return err
			}

			tx, err := transaction.FromSerializedData(serialized, &txbasic.TxOptions{Profile: profile, Log: log})
			if err != nil {
				return err
			}

			return writeJSON(cmd, describeTx(tx))
		},
	}
}

type signedTx struct {
	Raw    string `json:"raw"`
	Hash   string `json:"hash"`
	Sender string `json:"sender"`
}

func signCmd(opts *txCmdOptions) *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "sign <json|@file>",
		Short: "Signs a transaction given as JSON.",
		Long:  `Builds a transaction from its JSON fields, signs it with the given private key and prints the serialized result.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			profile, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			priKey, err := tpcmm.ParseHexBytes(keyHex)
			if err != nil {
				return fmt.Errorf("key: %v", err)
			}
			input, err := readArg(args[0])
			if err != nil {
				return err
			}

			var data txbasic.TxData
			if err = codec.CreateDecoder(codec.CodecType_JSON, bytes.NewReader(input)).Decode(&data); err != nil {
				return err
			}
			tx, err := transaction.FromTxData(data, &txbasic.TxOptions{Profile: profile, Log: log})
			if err != nil {
				return err
			}

			signed, err := transaction.NewSigner(profile).SignTx(tx, tpcrtypes.PrivateKey(priKey))
			if err != nil {
				return err
			}
			serialized, err := signed.Serialize()
			if err != nil {
				return err
			}
			hash, err := signed.Hash()
			if err != nil {
				return err
			}
			sender, err := signed.SenderAddress()
			if err != nil {
				return err
			}
			log.Infof("signed %s transaction %s", signed.Type().String(), hexutil.Encode(hash))

			return writeJSON(cmd, &signedTx{
				Raw:    hexutil.Encode(serialized),
				Hash:   hexutil.Encode(hash),
				Sender: sender.Hex(),
			})
		},
	}
	cmd.Flags().StringVarP(&keyHex, "key", "k", "", "32 byte private key, hex")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

type verifyResult struct {
	Valid  bool     `json:"valid"`
	Sender string   `json:"sender,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func verifyCmd(opts *txCmdOptions) *cobra.Command {
	var balance, nonce, sender string

	cmd := &cobra.Command{
		Use:   "verify <hex|@file>",
		Short: "Verifies a serialized transaction.",
		Long:  `Checks the signature and intrinsic gas of a serialized transaction, and optionally its sender, nonce and the sender's balance.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			profile, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			serialized, err := parseHexArg("transaction", args[0])
			if err != nil {
				return err
			}
			tx, err := transaction.FromSerializedData(serialized, &txbasic.TxOptions{Profile: profile, Log: log})
			if err != nil {
				return err
			}

			validators := []transaction.TransactionValidator{
				transaction.TransactionValidatorWithGas(),
				transaction.TransactionValidatorWithSignature(),
			}
			if balance != "" {
				b, ok := new(big.Int).SetString(balance, 0)
				if !ok {
					return fmt.Errorf("invalid balance %s", balance)
				}
				validators = append(validators, transaction.TransactionValidatorWithBalance(b))
			}
			if nonce != "" {
				n, ok := new(big.Int).SetString(nonce, 0)
				if !ok {
					return fmt.Errorf("invalid nonce %s", nonce)
				}
				validators = append(validators, transaction.TransactionValidatorWithNonce(n))
			}
			if sender != "" {
				if !common.IsHexAddress(sender) {
					return fmt.Errorf("invalid sender %s", sender)
				}
				validators = append(validators, transaction.TransactionValidatorWithAddress(common.HexToAddress(sender)))
			}

			result := &verifyResult{Errors: tx.ValidationErrors()}
			result.Valid = transaction.ApplyTransactionValidator(cmd.Context(), log, tx, validators...) == transaction.ValidationResult_Accept
			if addr, err := tx.SenderAddress(); err == nil {
				result.Sender = addr.Hex()
			}

			if err = writeJSON(cmd, result); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("transaction rejected")
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&balance, "balance", "", "", "sender balance in wei; rejects if the upfront cost exceeds it")
	flags.StringVarP(&nonce, "nonce", "", "", "expected nonce")
	flags.StringVarP(&sender, "sender", "", "", "expected sender address")

	return cmd
}

type keyPair struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
	Address    string `json:"address"`
}

func keygenCmd(opts *txCmdOptions) *cobra.Command {
	var seedHex string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generates a secp256k1 key pair.",
		Long:  `Generates a secp256k1 key pair and its address, randomly or from a 32 byte seed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			_, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}

			cryptService := tpcrt.CreateCryptService(log, tpcrtypes.CryptType_Secp256)

			var priKey tpcrtypes.PrivateKey
			var pubKey tpcrtypes.PublicKey
			if seedHex != "" {
				seed, err := tpcmm.ParseHexBytes(seedHex)
				if err != nil {
					return fmt.Errorf("seed: %v", err)
				}
				priKey, pubKey, err = cryptService.GeneratePriPubKeyBySeed(seed)
				if err != nil {
					return err
				}
			} else {
				priKey, pubKey, err = cryptService.GeneratePriPubKey()
				if err != nil {
					return err
				}
			}

			addr, err := cryptService.CreateAddress(pubKey)
			if err != nil {
				return err
			}

			return writeJSON(cmd, &keyPair{
				PrivateKey: hexutil.Encode(priKey),
				PublicKey:  hexutil.Encode(pubKey),
				Address:    addr.Hex(),
			})
		},
	}
	cmd.Flags().StringVarP(&seedHex, "seed", "", "", "32 byte seed, hex; random when empty")

	return cmd
}

// TxCmd builds the tx command tree.
func TxCmd() *cobra.Command {
	opts := &txCmdOptions{}

	txCmd := &cobra.Command{
		Use:   txFuncName,
		Short: fmt.Sprint(txCmdDes),
		Long:  fmt.Sprint(txCmdDes),
	}
	opts.bind(txCmd)

	txCmd.AddCommand(decodeCmd(opts), signCmd(opts), verifyCmd(opts), keygenCmd(opts))

	return txCmd
}
